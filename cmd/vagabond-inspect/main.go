// Package main provides a small inspection CLI for the vagabond core.
//
// vagabond-inspect computes the type closure of a built-in demo object graph
// and dumps the result, which is handy for eyeballing what the analyzer
// considers sealed versus shippable.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	vagabond "github.com/ServiceFoundation/Vagabond"
	"github.com/ServiceFoundation/Vagabond/examples/remote"
)

func main() {
	mgr, err := vagabond.New(vagabond.WithSharedShapeCache(256))
	if err != nil {
		fmt.Fprintln(os.Stderr, "vagabond-inspect:", err)
		os.Exit(1)
	}

	node := &remote.TreeNode{Value: 1}
	node.Children = []*remote.TreeNode{node} // self-reference on purpose

	root := remote.Task{
		Name:    "demo",
		Records: []remote.Record{{ID: 1, Label: "a"}, {ID: 2, Label: "b"}},
		Payload: remote.Blob{Kind: "tree", Next: node},
	}

	types, err := mgr.ComputeTypeClosure(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vagabond-inspect:", err)
		os.Exit(1)
	}

	fmt.Printf("closure of %T: %d named types\n", root, len(types))
	for _, t := range types {
		fmt.Println("  ", t.PkgPath()+"."+t.Name())
	}

	if len(os.Args) > 1 && os.Args[1] == "-v" {
		spew.Dump(types)
	}
}
