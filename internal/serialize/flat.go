package serialize

import (
	"strconv"

	"solmev/internal/action"
	"solmev/internal/tree"
)

// FlatRow is one row of the flat serialization (§6.3 FlatRow schema): a
// single descendant of a single transaction, with enough context (block
// slot, owning transaction, immediate parent, depth, and sibling path) to
// reconstruct its place in the nested document without re-walking the tree.
type FlatRow struct {
	BlockSlot          *int64  `json:"block_slot"`
	TransactionID      *int64  `json:"transaction_id"`
	ParentID           *int64  `json:"parent_id"`
	ID                 *int64  `json:"id"`
	InputAmount        *int64  `json:"input_amount"`
	InputMint          *string `json:"input_mint"`
	InputTokenAccount  *string `json:"input_token_account"`
	OutputAmount       *int64  `json:"output_amount"`
	OutputMint         *string `json:"output_mint"`
	OutputTokenAccount *string `json:"output_token_account"`
	ProgramID          *string `json:"program_id"`
	TipAmount          *int64  `json:"tip_amount"`
	Tipper             *string `json:"tipper"`
	Type               *string `json:"type"`
	Level              uint8   `json:"level"`
	Path               string  `json:"path"`
}

// SerializeFlat implements the §4.7/§6.3 flat serializer: it runs the
// nested serializer, then emits one FlatRow per descendant of each
// transaction under root. path is a dotted string of sibling indices
// relative to the owning transaction (e.g. "0.1" is the second child of
// the transaction's first child); level is the corresponding depth,
// starting at 0 for a transaction's direct children.
func SerializeFlat(tr *action.Tree, rootID tree.NodeID) ([]FlatRow, error) {
	nested, err := SerializeNested(tr, rootID)
	if err != nil {
		return nil, err
	}

	blockSlot := asInt64(nested["slot"])
	transactions, _ := nested["children"].([]map[string]any)

	var rows []FlatRow
	for _, transaction := range transactions {
		transactionID := asInt64(transaction["id"])
		instructions, _ := transaction["children"].([]map[string]any)
		flattenChildren(blockSlot, transactionID, nil, instructions, 0, "", &rows)
	}
	return rows, nil
}

func flattenChildren(blockSlot, transactionID, parentID *int64, children []map[string]any, level uint8, path string, rows *[]FlatRow) {
	for i, child := range children {
		currentPath := strconv.Itoa(i)
		if path != "" {
			currentPath = path + "." + currentPath
		}

		id := asInt64(child["id"])
		row := FlatRow{
			BlockSlot:          blockSlot,
			TransactionID:      transactionID,
			ParentID:           parentID,
			ID:                 id,
			InputAmount:        asInt64(child["input_amount"]),
			InputMint:          asString(child["input_mint"]),
			InputTokenAccount:  asString(child["input_token_account"]),
			OutputAmount:       asInt64(child["output_amount"]),
			OutputMint:         asString(child["output_mint"]),
			OutputTokenAccount: asString(child["output_token_account"]),
			ProgramID:          asString(child["program_id"]),
			TipAmount:          asInt64(child["tip_amount"]),
			Tipper:             asString(child["tipper"]),
			Type:               asString(child["type"]),
			Level:              level,
			Path:               currentPath,
		}
		*rows = append(*rows, row)

		if nestedChildren, ok := child["children"].([]map[string]any); ok {
			newParent := id
			if newParent == nil {
				newParent = parentID
			}
			flattenChildren(blockSlot, transactionID, newParent, nestedChildren, level+1, currentPath, rows)
		}
	}
}

// asInt64 reads a numeric JSON value out of a map[string]any built by
// action.Action.ToJSON. Fields set directly by the serializer (like "id")
// are plain Go ints; fields that survived a struct's own json.Marshal
// round trip decode as float64, the same as any other map[string]any built
// from encoding/json.
func asInt64(v any) *int64 {
	switch n := v.(type) {
	case int:
		i := int64(n)
		return &i
	case int64:
		return &n
	case uint64:
		i := int64(n)
		return &i
	case float64:
		i := int64(n)
		return &i
	default:
		return nil
	}
}

func asString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
