package catalog

// FieldKind discriminates how a form value is parsed and validated.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumber
	FieldEnum
)

// USDA grade values accepted for market items.
const (
	GradePrime  = "Prime"
	GradeSelect = "Select"
	GradeNone   = "None"
)

// Produce type values.
const (
	TypeFruit     = "Fruit"
	TypeVegetable = "Vegetable"
)

// FieldSpec describes one attribute of a category: how it arrives on a
// form, how it is validated, and the message shown when it is rejected.
type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	MinLen   int
	MaxLen   int
	Min      float64
	HasMin   bool
	Enum     []string
	Message  string
}

// Schema describes one product category. The four category values below
// carry everything that differs between them; all CRUD code is shared.
type Schema struct {
	Code        string
	Title       string
	Collection  string
	IdentField  string
	PriceSuffix string
	Fields      []FieldSpec
}

// Field returns the FieldSpec for a named field, or nil.
func (s Schema) Field(name string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

var (
	Dairy = Schema{
		Code:       "dairy",
		Title:      "Dairy",
		Collection: "dairy_items",
		IdentField: "product",
		Fields: []FieldSpec{
			{Name: "brandname", Label: "Brand Name", Kind: FieldText, Required: true, MinLen: 2, MaxLen: 100, Message: "Brandname Required!"},
			{Name: "product", Label: "Product", Kind: FieldText, Required: true, MinLen: 2, MaxLen: 100, Message: "Type of Product Required!"},
			{Name: "price", Label: "Price", Kind: FieldNumber},
		},
	}

	Grocery = Schema{
		Code:       "grocery",
		Title:      "Grocery",
		Collection: "grocery_items",
		IdentField: "product",
		Fields: []FieldSpec{
			{Name: "brandname", Label: "Brand Name", Kind: FieldText, Required: true, MinLen: 1, MaxLen: 100, Message: "Please include the Brandname!"},
			{Name: "product", Label: "Product", Kind: FieldText, Required: true, MinLen: 1, MaxLen: 100, Message: "Type of Product required!"},
			{Name: "price", Label: "Price", Kind: FieldNumber, Required: true, Min: 1, HasMin: true, Message: "Price must be at least 1!"},
			{Name: "quantity", Label: "Quantity", Kind: FieldNumber},
		},
	}

	Market = Schema{
		Code:        "market",
		Title:       "Market",
		Collection:  "market_items",
		IdentField:  "name",
		PriceSuffix: " / lb",
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Kind: FieldText, Required: true, MinLen: 1, MaxLen: 100, Message: "You must include the Product name!"},
			{Name: "price", Label: "Price", Kind: FieldNumber, Required: true, Min: 1, HasMin: true, Message: "Price must be at least 1!"},
			{Name: "usda", Label: "USDA Grade", Kind: FieldEnum, Required: true, Enum: []string{GradePrime, GradeSelect, GradeNone}, Message: "Choices are either Prime, Select, or None."},
			{Name: "quantity", Label: "Quantity", Kind: FieldNumber},
		},
	}

	Produce = Schema{
		Code:        "produce",
		Title:       "Produce",
		Collection:  "produce_items",
		IdentField:  "name",
		PriceSuffix: " / lb",
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Kind: FieldText, Required: true, MinLen: 1, MaxLen: 100, Message: "You must include Name of Product!"},
			{Name: "price", Label: "Price", Kind: FieldNumber, Required: true, Min: 1, HasMin: true, Message: "Price must be at least 1!"},
			{Name: "type", Label: "Type", Kind: FieldEnum, Required: true, Enum: []string{TypeFruit, TypeVegetable}, Message: "Type must be either Fruit or Vegetable!"},
		},
	}
)

// Categories lists every schema in display order.
var Categories = []Schema{Dairy, Grocery, Market, Produce}

// Lookup resolves a category code from a URL segment.
func Lookup(code string) (Schema, bool) {
	for _, s := range Categories {
		if s.Code == code {
			return s, true
		}
	}
	return Schema{}, false
}
