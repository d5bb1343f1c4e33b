package model

import (
	"bytes"
	"encoding/json"
)

// VehicleStatus is the lifecycle state of a vehicle.
type VehicleStatus string

const (
	StatusAvailable   VehicleStatus = "available"
	StatusAssigned    VehicleStatus = "assigned"
	StatusMaintenance VehicleStatus = "maintenance"
)

// Valid reports whether s is a known status.
func (s VehicleStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusMaintenance:
		return true
	}
	return false
}

// Assignee is the user a vehicle is assigned to. The backend sends either a
// bare user id or a populated user object.
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts a string/number id or an object with id/_id and name.
func (a *Assignee) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ID      FlexID `json:"id"`
			MongoID FlexID `json:"_id"`
			Name    string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		a.ID = string(obj.ID)
		if a.ID == "" {
			a.ID = string(obj.MongoID)
		}
		a.Name = obj.Name
		return nil
	}
	var id FlexID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	a.ID = string(id)
	a.Name = ""
	return nil
}

// Vehicle is a fleet vehicle as returned by the backend.
type Vehicle struct {
	ID           FlexID        `json:"id"`
	MongoID      FlexID        `json:"_id,omitempty"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	LicensePlate string        `json:"licensePlate"`
	VIN          string        `json:"vin"`
	Status       VehicleStatus `json:"status"`
	AssignedTo   *Assignee     `json:"assignedTo,omitempty"`
}

// Key returns the record identifier, preferring id over _id.
func (v Vehicle) Key() string {
	if v.ID != "" {
		return string(v.ID)
	}
	return string(v.MongoID)
}

// MarshalJSON emits the record with its Key as id and no _id.
func (v Vehicle) MarshalJSON() ([]byte, error) {
	type wire Vehicle
	w := wire(v)
	w.ID, w.MongoID = FlexID(v.Key()), ""
	return json.Marshal(w)
}

// VehicleRequest is the payload for creating or updating a vehicle.
type VehicleRequest struct {
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	LicensePlate string        `json:"licensePlate"`
	VIN          string        `json:"vin"`
	Status       VehicleStatus `json:"status"`
}

// AssignRequest assigns a vehicle to a user.
type AssignRequest struct {
	UserID string `json:"userId"`
}

// AssignmentBoard is the data behind the vehicle assignment screen.
type AssignmentBoard struct {
	Vehicles []Vehicle `json:"vehicles"`
	Users    []User    `json:"users"`
}
