// Command hubtctl is a local operator CLI over a disk-backed HUBT
// store: point writes, root inspection, and proof generation/
// verification for debugging and scripting. It speaks no network
// protocol — it opens the store file directly — staying inside the
// scope spec.md carves out for "any network, CLI, or serialization
// layer" as an external collaborator rather than part of the tree
// engine itself.
package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/amadeus-robot/hubt/store"
	"github.com/amadeus-robot/hubt/tree"
)

var dataDirFlag = &cli.StringFlag{
	Name:     "datadir",
	Usage:    "directory holding the HUBT bbolt store",
	Required: true,
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app := &cli.App{
		Name:  "hubtctl",
		Usage: "low level operations on a HUBT store",
		Flags: []cli.Flag{dataDirFlag},
		Commands: []*cli.Command{
			putCmd,
			deleteCmd,
			rootCmd,
			proveCmd,
			proveNonExistenceCmd,
			proveMismatchCmd,
			statsCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("hubtctl failed", "err", err)
		os.Exit(1)
	}
}

func openTree(ctx *cli.Context) (*tree.Tree, error) {
	bolt, err := store.OpenBoltStore(ctx.String("datadir"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	cached := store.NewCachedStore(bolt, 32*1024*1024)
	return tree.New(cached)
}

var putCmd = &cli.Command{
	Name:      "put",
	Usage:     "insert a key-value pair",
	ArgsUsage: "<key> <value>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return cli.Exit("usage: hubtctl put <key> <value>", 1)
		}
		t, err := openTree(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		if err := t.BatchUpdate([]tree.Op{tree.InsertOp([]byte(ctx.Args().Get(0)), []byte(ctx.Args().Get(1)))}); err != nil {
			return err
		}
		fmt.Println(t.Root())
		return nil
	},
}

var deleteCmd = &cli.Command{
	Name:      "delete",
	Usage:     "delete a key",
	ArgsUsage: "<key>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return cli.Exit("usage: hubtctl delete <key>", 1)
		}
		t, err := openTree(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		if err := t.BatchUpdate([]tree.Op{tree.DeleteOp([]byte(ctx.Args().Get(0)))}); err != nil {
			return err
		}
		fmt.Println(t.Root())
		return nil
	},
}

var rootCmd = &cli.Command{
	Name:  "root",
	Usage: "print the current root commitment",
	Action: func(ctx *cli.Context) error {
		t, err := openTree(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		fmt.Println(t.Root())
		return nil
	},
}

var proveCmd = &cli.Command{
	Name:      "prove",
	Usage:     "generate an inclusion proof",
	ArgsUsage: "<key> <value>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return cli.Exit("usage: hubtctl prove <key> <value>", 1)
		}
		t, err := openTree(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		proof, err := t.Prove([]byte(ctx.Args().Get(0)), []byte(ctx.Args().Get(1)))
		if err != nil {
			return err
		}
		printInclusionProof(proof)
		return nil
	},
}

var proveNonExistenceCmd = &cli.Command{
	Name:      "prove-non-existence",
	Usage:     "generate an exclusion proof",
	ArgsUsage: "<key>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			return cli.Exit("usage: hubtctl prove-non-existence <key>", 1)
		}
		t, err := openTree(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		proof, err := t.ProveNonExistence([]byte(ctx.Args().Get(0)))
		if err != nil {
			return err
		}
		fmt.Printf("root:        %s\n", proof.Root)
		fmt.Printf("proven_path: %s\n", proof.ProvenPath)
		fmt.Printf("proven_hash: %s\n", proof.ProvenHash)
		printNodes(proof.Nodes)
		return nil
	},
}

var proveMismatchCmd = &cli.Command{
	Name:      "prove-mismatch",
	Usage:     "generate a mismatch proof",
	ArgsUsage: "<key> <claimed-value>",
	Action: func(ctx *cli.Context) error {
		if ctx.NArg() != 2 {
			return cli.Exit("usage: hubtctl prove-mismatch <key> <claimed-value>", 1)
		}
		t, err := openTree(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		proof, err := t.ProveMismatch([]byte(ctx.Args().Get(0)), []byte(ctx.Args().Get(1)))
		if err != nil {
			return err
		}
		fmt.Printf("root:         %s\n", proof.Root)
		fmt.Printf("actual_hash:  %s\n", proof.ActualHash)
		fmt.Printf("claimed_hash: %s\n", proof.ClaimedHash)
		printNodes(proof.Nodes)
		return nil
	},
}

var statsCmd = &cli.Command{
	Name:  "stats",
	Usage: "print a summary of store contents",
	Action: func(ctx *cli.Context) error {
		t, err := openTree(ctx)
		if err != nil {
			return err
		}
		defer t.Close()

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ROOT", "VALUE"})
		table.Append([]string{"commitment", t.Root().String()})
		table.Render()
		return nil
	},
}

func printInclusionProof(proof tree.InclusionProof) {
	fmt.Printf("root: %s\n", proof.Root)
	printNodes(proof.Nodes)
}

func printNodes(nodes []tree.ProofNode) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"LEN", "DIRECTION", "HASH"})
	for _, n := range nodes {
		table.Append([]string{
			fmt.Sprintf("%d", n.Len),
			fmt.Sprintf("%d", n.Direction),
			hex.EncodeToString(n.Hash[:]),
		})
	}
	table.Render()
}
