package fintidy

import (
	"fmt"
	"strings"
)

// Uncategorized is the name of the catch-all node present at every level of
// the tree, and the category of transactions nothing has classified yet.
const Uncategorized = "uncategorized"

// Top-level buckets of the category tree.
const (
	TopIncome    = "income"
	TopSpending  = "spending"
	TopTransfers = "transfers"
)

// Category is a node in the personal category tree. Transactions are assigned
// to leaves, reports roll subtrees up.
type Category struct {
	Name     string
	Children []*Category
}

func c(name string, children ...*Category) *Category {
	return &Category{Name: name, Children: children}
}

// tree is the category hierarchy.
//
// The top levels separate income, spending and transfers. Spending splits into
// needs (can't not pay), shoulds (the middle ground most apps lack: health,
// groceries, seeing family) and wants, so that cuts come from wants before
// shoulds. Peer-to-peer credits are not income: they usually settle a spending
// category and belong there as credits.
var tree = c("",
	c(TopIncome,
		c("gift"),   // family sending money
		c("salary"), // money from the job
		c("atm"),    // deposit into an ATM
		c(Uncategorized),
	),
	c(TopSpending,
		c("atm"), // withdrawal from an ATM
		c("needs",
			c("rent"),
			c("utilities"), // power, wifi
			c("home"),      // toilet paper, cleaning
			c("health"),    // skin care, dental
			c("loans"),     // student loans
			c(Uncategorized),
		),
		c("shoulds",
			c("grocery"),   // incentivize cooking more
			c("fitness"),   // recurring gym; nice-to-haves go in hobbies
			c("services"),  // iCloud, spotify
			c("commuting"), // subway, train home
			c(Uncategorized),
		),
		c("wants",
			c("dining",
				c("treats"), // dessert, coffee, snacks
				c("dates"),
				c("friends"),
				c("solo"),
				c(Uncategorized),
			),
			c("shopping",
				c("clothes"),
				c("hobbies"),
				c("gift"),
				c(Uncategorized),
			),
			c("entertainment",
				c("alcohol"),
				c("shows"), // concerts, raves
				c("sober fun"),
				c(Uncategorized),
			),
			c("travel",
				c("lodging"),
				c("transportation"), // airfare, car rental
				c("food"),           // deliberate overlap with dining: travel food tracks separately
				c("activities"),
				c("shopping"), // souvenirs
				c(Uncategorized),
			),
		),
	),
	c(TopTransfers,
		c("credit card payments"),
		c("stocks"),
		c("long-term cash"), // HYSA, T-bills, CDs
		c(Uncategorized),
	),
	c(Uncategorized),
)

// CategoryTree returns the root of the category tree. The root itself is
// unnamed; its children are the top-level buckets.
func CategoryTree() *Category { return tree }

// IsLeaf reports whether the node has no children.
func (n *Category) IsLeaf() bool { return len(n.Children) == 0 }

// Find returns the node addressed by the slash path ("spending/wants/dining"),
// or nil if no such node exists. The empty path addresses the root.
func (n *Category) Find(path string) *Category {
	if path == "" {
		return n
	}
	segment, rest, _ := strings.Cut(path, "/")
	for _, child := range n.Children {
		if child.Name == segment {
			if rest == "" {
				return child
			}
			return child.Find(rest)
		}
	}
	return nil
}

// Leaves returns the slash paths of all leaves, in tree order.
func (n *Category) Leaves() []string {
	var leaves []string
	n.walk("", func(path string, node *Category) {
		if node.IsLeaf() {
			leaves = append(leaves, path)
		}
	})
	return leaves
}

// walk visits every node below n in tree order with its slash path.
func (n *Category) walk(prefix string, visit func(path string, node *Category)) {
	for _, child := range n.Children {
		path := child.Name
		if prefix != "" {
			path = prefix + "/" + child.Name
		}
		visit(path, child)
		child.walk(path, visit)
	}
}

// ValidCategory reports whether path names an existing node of the tree.
func ValidCategory(path string) bool { return tree.Find(path) != nil }

// ValidLeaf reports whether path names a leaf of the tree. Only leaves are
// valid assignment targets.
func ValidLeaf(path string) bool {
	node := tree.Find(path)
	return node != nil && node.IsLeaf()
}

// CheckLeaf returns an error describing why path is not a valid assignment
// target, or nil.
func CheckLeaf(path string) error {
	node := tree.Find(path)
	if node == nil {
		return fmt.Errorf("unknown category %q", path)
	}
	if !node.IsLeaf() {
		return fmt.Errorf("category %q is not a leaf, assign to one of its children", path)
	}
	return nil
}

// TopLevel returns the first segment of a category path ("spending" for
// "spending/wants/dining/treats").
func TopLevel(path string) string {
	top, _, _ := strings.Cut(path, "/")
	return top
}

// Rollup truncates a category path to at most depth segments.
func Rollup(path string, depth int) string {
	if depth <= 0 {
		return path
	}
	segments := strings.Split(path, "/")
	if len(segments) <= depth {
		return path
	}
	return strings.Join(segments[:depth], "/")
}

// InSubtree reports whether path is the given subtree root or below it.
func InSubtree(path, root string) bool {
	if root == "" || path == root {
		return true
	}
	return strings.HasPrefix(path, root+"/")
}
