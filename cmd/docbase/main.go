// Command docbase is a small interactive demo of the engine: it opens
// a collection, inserts a few documents, runs a filter, updates one by
// id, and prints the resulting envelopes. It exists to exercise the
// library end to end; there is no transport layer here (spec.md §1).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/skshohagmiah/docbase"
)

var (
	dataDir = flag.String("data", "./storage", "Storage directory")
	debug   = flag.Bool("debug", false, "Enable structured operation logging")
)

func main() {
	flag.Parse()

	engine, err := docbase.Open(docbase.Config{
		StoragePath: *dataDir,
		SaveDelay:   50 * time.Millisecond,
		Debug:       *debug,
	})
	if err != nil {
		log.Fatalf("open engine: %v", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("close engine: %v", err)
		}
	}()

	insertRes := engine.Insert("people", []map[string]interface{}{
		{"name": "Alice", "age": 30, "active": true, "tags": []interface{}{"vip"}},
		{"name": "Bob", "age": 24, "active": false},
	})
	printResult("insert", insertRes)

	findRes := engine.Find("people", map[string]interface{}{
		"active": true,
	}, docbase.FindOptions{})
	printResult("find active", findRes)

	if insertRes.Success {
		ir := insertRes.Data.(*docbase.InsertResult)
		if len(ir.InsertedIDs) > 0 {
			updateRes := engine.UpdateByID("people", ir.InsertedIDs[0], map[string]interface{}{
				"$inc": map[string]interface{}{"age": 1},
			}, docbase.ReturnOptions{ReturnDocs: true})
			printResult("updateById", updateRes)
		}
	}

	statsRes := engine.Stats("people")
	printResult("stats", statsRes)
}

func printResult(label string, r *docbase.Result) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		log.Printf("%s: marshal error: %v", label, err)
		return
	}
	fmt.Printf("%s:\n%s\n\n", label, b)
}
