package forest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/FedericoMarcuzzi/TREANT/feature"
	"github.com/FedericoMarcuzzi/TREANT/tree"
	"github.com/FedericoMarcuzzi/TREANT/tree/serialize"
)

// WriteJSON writes f as a JSON array of per-tree documents, each in the
// shape tree/serialize.WriteJSON produces.
func WriteJSON(ctx context.Context, f *Forest, w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, t := range f.Trees {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := serialize.WriteJSON(ctx, t, w); err != nil {
			return fmt.Errorf("writing forest tree %d: %w", i, err)
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

// ReadJSON reads a document written by WriteJSON into a fresh Forest,
// resolving each tree's label against features.
func ReadJSON(ctx context.Context, r io.Reader, features []*feature.Feature) (*Forest, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decoding forest: %v", err)
	}
	f := &Forest{Trees: make([]*tree.Tree, len(raws))}
	for i, raw := range raws {
		t, err := serialize.ReadJSON(ctx, bytes.NewReader(raw), features)
		if err != nil {
			return nil, fmt.Errorf("decoding forest tree %d: %w", i, err)
		}
		f.Trees[i] = t
	}
	return f, nil
}
