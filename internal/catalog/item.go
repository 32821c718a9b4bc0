package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is the uploaded picture embedded in an item document. File is the
// generated filename under the public images directory; the sweep job uses
// it to tell live images from orphans.
type Image struct {
	Data        []byte `bson:"data"`
	ContentType string `bson:"content_type"`
	File        string `bson:"file,omitempty"`
}

// Item is one catalog record. Attrs holds the category-specific fields
// keyed by FieldSpec name; text attributes are string, numeric attributes
// float64. The inline tag keeps documents flat, matching the original
// collection layout.
type Item struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Attrs map[string]any     `bson:",inline"`
	Img   Image              `bson:"img"`
}

func NewItem(attrs map[string]any, img Image) *Item {
	if attrs == nil {
		attrs = map[string]any{}
	}
	return &Item{Attrs: attrs, Img: img}
}

// Text returns a string attribute, or "" when absent.
func (it *Item) Text(name string) string {
	v, ok := it.Attrs[name]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Number returns a numeric attribute. Mongo decodes numbers as int32,
// int64 or float64 depending on how they were stored, so coerce.
func (it *Item) Number(name string) (float64, bool) {
	v, ok := it.Attrs[name]
	if !ok || v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Ident returns the value of the schema's identifying field.
func (it *Item) Ident(s Schema) string {
	return it.Text(s.IdentField)
}

// ItemURL builds the canonical detail path for an item. Derived, never
// stored.
func ItemURL(s Schema, it *Item) string {
	return "/inventory/" + s.Code + "/" + it.ID.Hex()
}

// PriceLabel formats an item's price for display, e.g. "$2.89" or
// "$8.99 / lb". Items without a price yield an empty label.
func PriceLabel(s Schema, it *Item) string {
	price, ok := it.Number("price")
	if !ok {
		return ""
	}
	return "$" + trimPrice(price) + s.PriceSuffix
}

func trimPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if strings.HasSuffix(s, ".00") {
		return strings.TrimSuffix(s, ".00")
	}
	return s
}

func (it *Item) String() string {
	return fmt.Sprintf("Item(%s %v)", it.ID.Hex(), it.Attrs)
}
