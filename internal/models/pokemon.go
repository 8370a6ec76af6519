package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pokemon is a catalog entry cached in the pokemon table. Rows are shared by
// every user and never change once created.
type Pokemon struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CaughtPokemon is one catch owned by UserID.
type CaughtPokemon struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PokemonID string    `json:"pokemon_id"`
	CaughtAt  time.Time `json:"caught_at"`
	Pokemon   *Pokemon  `json:"pokemon,omitempty"`
}

// CatchRequest is the JSON body for POST /protected/catch.
type CatchRequest struct {
	Name string `json:"name"`
}

// Journal actions.
const (
	ActionCatch   = "catch"
	ActionRelease = "release"
)

// Event is a collection activity entry stored in MongoDB.
type Event struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Action      string             `json:"action" bson:"action"`
	RecordID    string             `json:"record_id" bson:"record_id"`
	PokemonName string             `json:"pokemon_name" bson:"pokemon_name,omitempty"`
	At          time.Time          `json:"at" bson:"at"`
}
