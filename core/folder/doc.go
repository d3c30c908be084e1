// Package folder manages directories of numbered files and run folders, the
// on-disk layout of versioned datasets and experiment runs.
//
// Entries follow a name format containing exactly one '$' marking where the
// number appears, an optional single '*' wildcard for free text, and an
// optional '[...]' group for parts that may be absent:
//
//	"sample-$.json"    sample-1.json, sample-2.json, ...
//	"EXP-$[-*]"        EXP-3, EXP-4-baseline, ...
//	"epoch-$.ckpt"     epoch--1.ckpt, epoch-11.ckpt (negative numbers allowed)
//
// Listing is sorted numerically, so sample-2 comes before sample-10 even
// though lexicographic order says otherwise. NextName hands out the next
// free number for a new run or sample file.
//
// # Basic Usage
//
//	import "github.com/mlfoundry/expkit/core/folder"
//
//	runs, err := folder.New("experiments/gan")
//	if err != nil {
//		return err
//	}
//
//	name, err := runs.NextName("RUN-$[-*]", "lower-lr", true)
//	// name == "RUN-8-lower-lr", directory created
//
//	entries, err := runs.List("RUN-$[-*]")
//	for _, e := range entries {
//		fmt.Println(e.Number, e.Name)
//	}
package folder
