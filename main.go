package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pagestore/pkg/buffer"
	"pagestore/pkg/storage/disk"
	"pagestore/pkg/storage/index"
	"pagestore/pkg/storage/page"
)

const (
	DataDir = "./pagestore_data"
	DBFile  = "data.db"
	PoolSz  = 128
	IndexNm = "primary"
)

func main() {
	fmt.Println("🚀 pagestore is starting...")

	if err := os.MkdirAll(DataDir, 0755); err != nil {
		log.Fatalf("❌ Failed to create data dir: %v", err)
	}

	dbPath := filepath.Join(DataDir, DBFile)
	dm, err := disk.NewDiskManager(dbPath)
	if err != nil {
		log.Fatalf("❌ Failed to open disk manager: %v", err)
	}
	defer dm.Close()

	bpm := buffer.NewBufferPoolManager(dm, PoolSz)

	header, err := index.OpenHeader(bpm)
	if err != nil {
		header, err = index.BootstrapHeader(bpm)
		if err != nil {
			log.Fatalf("❌ Failed to bootstrap header page: %v", err)
		}
	}
	defer header.Close()

	tree := index.NewBPlusTree(IndexNm, header, bpm, 64, 64, nil)

	fmt.Println("👉 commands: put <key> <page> <slot> | get <key> | del <key> | scan | stats | quit")

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("pagestore> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			runCommand(tree, bpm, header, line)
		}
		fmt.Print("pagestore> ")
	}
}

func runCommand(tree *index.BPlusTree, bpm *buffer.BufferPoolManager, header *index.Header, line string) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "quit", "exit":
		fmt.Println("👋 bye")
		os.Exit(0)

	case "put":
		if len(fields) != 4 {
			fmt.Println("usage: put <key> <page> <slot>")
			return
		}
		key, err1 := strconv.ParseInt(fields[1], 10, 64)
		pageID, err2 := strconv.ParseInt(fields[2], 10, 32)
		slot, err3 := strconv.ParseUint(fields[3], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Println("bad arguments")
			return
		}
		rid := page.RecordID{PageID: page.PageID(pageID), SlotNum: uint32(slot)}
		if tree.Insert(key, rid) {
			fmt.Println("OK")
		} else {
			fmt.Println("ERR key already exists")
		}

	case "get":
		if len(fields) != 2 {
			fmt.Println("usage: get <key>")
			return
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Println("bad key")
			return
		}
		rid, ok := tree.GetValue(key)
		if !ok {
			fmt.Println("(not found)")
			return
		}
		fmt.Printf("page=%d slot=%d\n", rid.PageID, rid.SlotNum)

	case "del":
		if len(fields) != 2 {
			fmt.Println("usage: del <key>")
			return
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Println("bad key")
			return
		}
		tree.Remove(key)
		fmt.Println("OK")

	case "scan":
		it := tree.Begin()
		if it == nil {
			fmt.Println("(empty)")
			return
		}
		defer it.Close()
		n := 0
		for it.IsValid() {
			rid := it.Value()
			fmt.Printf("%d -> page=%d slot=%d\n", it.Key(), rid.PageID, rid.SlotNum)
			n++
			it.Next()
		}
		fmt.Printf("(%d entries)\n", n)

	case "stats":
		fmt.Printf("root page id: %d\n", tree.GetRootPageID())

	default:
		fmt.Printf("unknown command %q\n", cmd)
	}
}
