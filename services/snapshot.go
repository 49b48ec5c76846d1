package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Checkout metadata keys. The processor caps values at 500 characters and a
// session at 50 keys, so the item list is split across numbered keys.
const (
	MetadataOwnerKey = "userEmail"
	MetadataItemsKey = "cartItems"
	MetadataPartsKey = "cartItemsParts"

	maxMetadataValueLen = 500
	maxSnapshotChunks   = 40
)

type SnapshotItem struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Price     string `json:"price,omitempty" validate:"omitempty,numeric"`
}

// CartSnapshot is the cart as it was when checkout began.
type CartSnapshot struct {
	OwnerEmail string         `validate:"required,email"`
	Items      []SnapshotItem `validate:"dive"`
}

var snapshotValidator = validator.New()

func (s *CartSnapshot) Validate() error {
	if err := snapshotValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return nil
}

func EncodeSnapshotMetadata(s *CartSnapshot) (map[string]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	items := s.Items
	if items == nil {
		items = []SnapshotItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart snapshot: %w", err)
	}

	chunks := splitChunks(string(raw), maxMetadataValueLen)
	if len(chunks) > maxSnapshotChunks {
		return nil, fmt.Errorf("%w: %d items", ErrSnapshotTooLarge, len(items))
	}

	md := map[string]string{MetadataOwnerKey: s.OwnerEmail}
	for i, chunk := range chunks {
		md[chunkKey(i)] = chunk
	}
	if len(chunks) > 1 {
		md[MetadataPartsKey] = strconv.Itoa(len(chunks))
	}
	return md, nil
}

// DecodeSnapshotMetadata reverses EncodeSnapshotMetadata. A lone cartItems key
// without a parts count is accepted.
func DecodeSnapshotMetadata(md map[string]string) (*CartSnapshot, error) {
	owner := md[MetadataOwnerKey]
	first, ok := md[MetadataItemsKey]
	if owner == "" || !ok {
		return nil, fmt.Errorf("%w: missing %s or %s", ErrInvalidSnapshot, MetadataOwnerKey, MetadataItemsKey)
	}

	raw := first
	if v, ok := md[MetadataPartsKey]; ok {
		parts, err := strconv.Atoi(v)
		if err != nil || parts < 1 || parts > maxSnapshotChunks {
			return nil, fmt.Errorf("%w: bad part count %q", ErrInvalidSnapshot, v)
		}
		for i := 1; i < parts; i++ {
			chunk, ok := md[chunkKey(i)]
			if !ok {
				return nil, fmt.Errorf("%w: missing part %d of %d", ErrInvalidSnapshot, i+1, parts)
			}
			raw += chunk
		}
	}

	var items []SnapshotItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	s := &CartSnapshot{OwnerEmail: owner, Items: items}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func chunkKey(i int) string {
	if i == 0 {
		return MetadataItemsKey
	}
	return MetadataItemsKey + "_" + strconv.Itoa(i)
}

func splitChunks(s string, size int) []string {
	if s == "" {
		return []string{""}
	}
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}
