package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, &VNode{
				Kind: KindComponent,
				Comp: v,
			})
		}
	}

	return node
}

// Mount wraps a Component as a VNode.
func Mount(c Component) *VNode {
	return &VNode{
		Kind: KindComponent,
		Comp: c,
	}
}

// If returns the node when cond is true, nil otherwise.
// Nil children are skipped by the element constructors, so this is
// the idiomatic way to render conditionally.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}

// Map renders a slice of items through a render function.
func Map[T any](items []T, render func(T) *VNode) []*VNode {
	nodes := make([]*VNode, 0, len(items))
	for _, item := range items {
		if n := render(item); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
