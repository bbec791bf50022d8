package render

import (
	"fmt"

	"github.com/cabewaldrop/minisql/internal/sql/parser"
)

// treeItem is one printable line of the parse tree and the lines below it.
type treeItem struct {
	label    string
	children []treeItem
}

func leaf(format string, args ...any) treeItem {
	return treeItem{label: fmt.Sprintf(format, args...)}
}

// typed appends the inferred type suffix when a type has been assigned.
func typed(label string, t parser.DataType) string {
	if t == parser.TypeNone {
		return label
	}
	return fmt.Sprintf("%s <Type: %s>", label, t)
}

func buildTree(n parser.Node) treeItem {
	switch n := n.(type) {
	case *parser.Query:
		item := treeItem{label: "Query"}
		for _, stmt := range n.Statements {
			item.children = append(item.children, buildTree(stmt))
		}
		return item

	case *parser.CreateTableStatement:
		item := leaf("Create Table: %s", n.Table)
		for _, col := range n.Columns {
			item.children = append(item.children, leaf("Column: %s %s", col.Name, col.Type))
		}
		return item

	case *parser.InsertStatement:
		item := leaf("Insert into: %s", n.Table)
		for _, val := range n.Values {
			item.children = append(item.children, leaf("%s", typed("Value: "+val.Raw, val.Type)))
		}
		return item

	case *parser.SelectStatement:
		item := leaf("Select from: %s", n.From)
		if n.Star {
			item.children = append(item.children, leaf("Column: *"))
		}
		for _, col := range n.Columns {
			item.children = append(item.children, leaf("Column: %s", col))
		}
		if n.Where != nil {
			item.children = append(item.children, buildTree(n.Where))
		}
		return item

	case *parser.UpdateStatement:
		item := leaf("Update: %s", n.Table)
		for _, asg := range n.Assignments {
			item.children = append(item.children,
				leaf("%s", typed(fmt.Sprintf("Set: %s = %s", asg.Column, asg.Value.Raw), asg.Value.Type)))
		}
		if n.Where != nil {
			item.children = append(item.children, buildTree(n.Where))
		}
		return item

	case *parser.DeleteStatement:
		item := leaf("Delete from: %s", n.Table)
		if n.Where != nil {
			item.children = append(item.children, buildTree(n.Where))
		}
		return item

	case *parser.BinaryExpression:
		return treeItem{
			label:    typed("BinaryOp: "+n.Symbol(), n.Type),
			children: []treeItem{buildTree(n.Left), buildTree(n.Right)},
		}

	case *parser.NotExpression:
		return treeItem{
			label:    typed("NOT", n.Type),
			children: []treeItem{buildTree(n.Operand)},
		}

	case *parser.ColumnRef:
		return leaf("%s", typed("ColumnRef: "+n.Name, n.Type))

	case *parser.Literal:
		return leaf("%s", typed("Literal: "+n.Raw, n.Type))

	default:
		return leaf("Unknown: %T", n)
	}
}

// Tree prints q with box-drawing connectors, one node per line.
func (p *Printer) Tree(q *parser.Query) {
	if q == nil {
		return
	}
	p.printItem(buildTree(q), "", true)
}

func (p *Printer) printItem(item treeItem, prefix string, last bool) {
	connector, childPrefix := "├── ", prefix+"│   "
	if last {
		connector, childPrefix = "└── ", prefix+"    "
	}

	p.dim.Fprint(p.w, prefix+connector)
	fmt.Fprintln(p.w, item.label)

	for i, child := range item.children {
		p.printItem(child, childPrefix, i == len(item.children)-1)
	}
}
