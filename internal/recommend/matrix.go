// Package recommend ranks products similar to a given one by blending
// purchase popularity and margin.
package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Neighbor is a product with its similarity to the queried one.
type Neighbor struct {
	ProductNo  string
	Similarity float64
}

// Neighbors looks up products similar to productNo, most similar first and
// excluding productNo itself. ok is false when productNo is unknown.
type Neighbors interface {
	Nearest(productNo string) (neighbors []Neighbor, ok bool)
}

var ErrMalformedMatrix = errors.New("malformed similarity matrix")

// MatrixIndex is a precomputed square similarity matrix over products.
type MatrixIndex struct {
	products []string
	index    map[string]int
	scores   [][]float64
}

type matrixFile struct {
	Products []string    `json:"products"`
	Scores   [][]float64 `json:"scores"`
}

// LoadMatrix reads a {"products": [...], "scores": [[...]]} document.
func LoadMatrix(r io.Reader) (*MatrixIndex, error) {
	var f matrixFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMatrix, err)
	}
	if len(f.Scores) != len(f.Products) {
		return nil, fmt.Errorf("%w: %d products, %d rows", ErrMalformedMatrix, len(f.Products), len(f.Scores))
	}
	m := &MatrixIndex{products: f.Products, index: make(map[string]int, len(f.Products)), scores: f.Scores}
	for i, p := range f.Products {
		if len(f.Scores[i]) != len(f.Products) {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrMalformedMatrix, i, len(f.Scores[i]))
		}
		if _, dup := m.index[p]; dup {
			return nil, fmt.Errorf("%w: duplicate product %q", ErrMalformedMatrix, p)
		}
		m.index[p] = i
	}
	return m, nil
}

// LoadMatrixFile opens path and loads it with LoadMatrix.
func LoadMatrixFile(path string) (*MatrixIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadMatrix(f)
}

func (m *MatrixIndex) Len() int { return len(m.products) }

func (m *MatrixIndex) Nearest(productNo string) ([]Neighbor, bool) {
	row, ok := m.index[productNo]
	if !ok {
		return nil, false
	}
	out := make([]Neighbor, 0, len(m.products)-1)
	for i, p := range m.products {
		if i == row {
			continue
		}
		out = append(out, Neighbor{ProductNo: p, Similarity: m.scores[row][i]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	return out, true
}
