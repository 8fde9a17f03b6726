package models

// Drug is a catalog entry priced per unit.
type Drug struct {
	ID             string  `json:"_id,omitempty"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit,omitempty"`
	IsAvailable    bool    `json:"isAvailable"`
	ExpirationDate *Date   `json:"expirationDate,omitempty"`
	Description    string  `json:"description,omitempty"`
}

// DrugUnits are the units a drug can be priced in.
var DrugUnits = []string{"mg", "ml", "g", "tablet", "capsule"}

// DrugInput is the body sent when creating or updating a drug.
type DrugInput struct {
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	IsAvailable    bool    `json:"isAvailable"`
	ExpirationDate *Date   `json:"expirationDate"`
	Description    string  `json:"description,omitempty"`
}

// LineItem pairs a drug reference with a quantity.
type LineItem struct {
	Drug     Ref[Drug] `json:"drug"`
	Quantity int       `json:"quantity"`
}

// DrugID returns the referenced drug id.
func (li LineItem) DrugID() string {
	return li.Drug.ID
}

// Subtotal returns unit price times quantity when the drug is populated.
func (li LineItem) Subtotal() float64 {
	if li.Drug.Value == nil {
		return 0
	}
	return li.Drug.Value.Amount * float64(li.Quantity)
}

// StripRefs returns a copy of items carrying only drug ids, which is the shape
// the backend expects on writes.
func StripRefs(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{Drug: RefTo[Drug](it.Drug.ID), Quantity: it.Quantity})
	}
	return out
}
