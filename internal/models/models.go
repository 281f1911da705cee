package models

// Item represents a priced item stored in the items table.
type Item struct {
	// Assigned by the store on insert, never changed afterwards.
	ID int64 `json:"id" db:"id"`

	// Assuming 'name' in DB is TEXT NOT NULL
	Name string `json:"name" db:"name"`

	// Assuming 'price' in DB is DOUBLE PRECISION NOT NULL CHECK (price >= 0)
	Price float64 `json:"price" db:"price"`
}

// ItemInput carries the candidate name/price of an item before it has an ID.
// It is only built from payloads that already passed verification.
type ItemInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ToItem attaches an ID to the input.
func (in ItemInput) ToItem(id int64) Item {
	return Item{ID: id, Name: in.Name, Price: in.Price}
}
