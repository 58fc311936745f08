package model

/*

Product is an item listed in the troop shop.

Id: primary key, document id in the products collection
SellerId: foreign key into the users collection
Seller: resolved seller, populated by hydration only. A product whose seller
	cannot be resolved is excluded from every derived view.
Name/Description: listing copy
Price: non-negative price in the shop currency
ImageUrls: listing image download references
Category: label used by the shop category filter
Variants: mapping from dimension name (e.g. "Size") to the ordered list of
	allowed values (e.g. ["S", "M", "L"])

*/
type Product struct {
	Id          string              `json:"id"`
	SellerId    string              `json:"sellerId"`
	Seller      *User               `json:"seller,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	ImageUrls   []string            `json:"imageUrls,omitempty"`
	Category    string              `json:"category"`
	Variants    map[string][]string `json:"variants,omitempty"`
}

// ProductVariant is one chosen point in a product's variant dimensions.
type ProductVariant struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// HasVariant returns true iff the product allows the given variant choice.
func (p *Product) HasVariant(v ProductVariant) bool {
	values, ok := p.Variants[v.Type]
	if !ok {
		return false
	}
	for _, val := range values {
		if val == v.Value {
			return true
		}
	}
	return false
}
