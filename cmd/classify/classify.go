package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"solmev/internal/block"
	"solmev/internal/classify"
	"solmev/internal/label"
	"solmev/internal/rpcblock"
	"solmev/internal/serialize"
)

var (
	classifyInputPath  string
	classifyOutputPath string
	classifySlot       uint64
	classifyFormat     string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a decoded Solana block into a labelled action tree",
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyInputPath, "input", "i", "-", "decoded-block JSON document (spec §6.1); - reads stdin")
	classifyCmd.Flags().StringVarP(&classifyOutputPath, "output", "o", "-", "destination for the serialized result; - writes stdout")
	classifyCmd.Flags().Uint64Var(&classifySlot, "slot", 0, "the block's slot number (required; not part of the decoded-block document)")
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "nested", "output shape: \"nested\" (§4.7 nested JSON) or \"flat\" (§6.3 flat rows)")
	_ = classifyCmd.MarkFlagRequired("slot")
}

func runClassify(cmd *cobra.Command, args []string) error {
	raw, err := readInput(classifyInputPath)
	if err != nil {
		return fmt.Errorf("classify: read input: %w", err)
	}

	var decoded rpcblock.Block
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("classify: decode input: %w", err)
	}

	registry := classify.NewRegistry()
	result, err := block.Assemble(registry, log, classifySlot, decoded)
	if err != nil {
		return fmt.Errorf("classify: assemble: %w", err)
	}

	labelCfg := label.Config{
		RetainVotes:             cfg.Labelling.RetainVotes,
		RemoveEmptyTransactions: cfg.Labelling.RemoveEmptyTransactions,
		ClusterJitoBundles:      cfg.Labelling.ClusterJitoBundles,
	}
	if err := label.Run(log, result.Tree, result.RootID, labelCfg, nil); err != nil {
		return fmt.Errorf("classify: label: %w", err)
	}

	var out any
	switch classifyFormat {
	case "nested":
		out, err = serialize.SerializeNested(result.Tree, result.RootID)
	case "flat":
		out, err = serialize.SerializeFlat(result.Tree, result.RootID)
	default:
		return fmt.Errorf("classify: unknown --format %q (want \"nested\" or \"flat\")", classifyFormat)
	}
	if err != nil {
		return fmt.Errorf("classify: serialize: %w", err)
	}

	return writeOutput(classifyOutputPath, out)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, v any) error {
	w := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
