package models

// Item is the core aggregate for this bounded context. ID is assigned by the
// store on insert; OwnerID is fixed at creation and never changes.
type Item struct {
	ID          int64
	Name        ItemName
	Description *string // nil when the item has no description
	OwnerID     int64
}

// DescriptionChange is the description part of a partial update. The zero
// value leaves the description alone; Set with a nil Value clears it.
type DescriptionChange struct {
	Set   bool
	Value *string
}

// KeepDescription leaves the stored description untouched.
func KeepDescription() DescriptionChange { return DescriptionChange{} }

// ReplaceDescription sets the description to v, or clears it when v is nil.
func ReplaceDescription(v *string) DescriptionChange {
	return DescriptionChange{Set: true, Value: v}
}

// NewItem constructs an unsaved Item owned by ownerID.
func NewItem(name ItemName, description *string, ownerID int64) *Item {
	return &Item{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
}

// ApplyUpdate overwrites the fields that are supplied and keeps the rest.
func (i *Item) ApplyUpdate(name *ItemName, description DescriptionChange) {
	if name != nil {
		i.Name = *name
	}
	if !description.Set {
		return
	}
	if description.Value == nil {
		i.Description = nil
		return
	}
	d := *description.Value
	i.Description = &d
}
