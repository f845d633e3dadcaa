package models

import "time"

type Property struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Location  string    `json:"location" bson:"location"`
	Address   string    `json:"address" bson:"address"`
	City      string    `json:"city" bson:"city"`
	Image     string    `json:"image" bson:"image"`
	IsActive  bool      `json:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// CreatePropertyRequest is the POST /properties body. IsActive defaults to true.
type CreatePropertyRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Image    string `json:"image"`
	IsActive *bool  `json:"isActive"`
}

func (r CreatePropertyRequest) ToProperty() Property {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return Property{
		Name:     r.Name,
		Location: r.Location,
		Address:  r.Address,
		City:     r.City,
		Image:    r.Image,
		IsActive: active,
	}
}

// PropertyPatch is a partial update. Nil fields are left untouched.
type PropertyPatch struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Image    *string `json:"image"`
	IsActive *bool   `json:"isActive"`
}

func (p PropertyPatch) Empty() bool {
	return p.Name == nil && p.Location == nil && p.Address == nil &&
		p.City == nil && p.Image == nil && p.IsActive == nil
}

// Apply copies the set fields onto prop.
func (p PropertyPatch) Apply(prop *Property) {
	if p.Name != nil {
		prop.Name = *p.Name
	}
	if p.Location != nil {
		prop.Location = *p.Location
	}
	if p.Address != nil {
		prop.Address = *p.Address
	}
	if p.City != nil {
		prop.City = *p.City
	}
	if p.Image != nil {
		prop.Image = *p.Image
	}
	if p.IsActive != nil {
		prop.IsActive = *p.IsActive
	}
}

// Fields returns the bson field names and values that are set.
func (p PropertyPatch) Fields() map[string]interface{} {
	set := make(map[string]interface{})
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.City != nil {
		set["city"] = *p.City
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}
	return set
}

type ToggleRequest struct {
	IsActive *bool `json:"isActive"`
}
