package models

import "time"

// Wood is a material attribute referenced by articles.
type Wood struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Brand is a manufacturer referenced by articles.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is a sellable product. Brand and Wood hold the related record ids;
// BrandName and WoodName are filled on reads by joining the related tables.
type Article struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Brand       string    `json:"brand"`
	Wood        string    `json:"wood"`
	Frets       int       `json:"frets"`
	Sold        int       `json:"sold"`
	Shipping    bool      `json:"shipping"`
	Available   bool      `json:"available"`
	Publish     bool      `json:"publish"`
	CreatedAt   time.Time `json:"created_at"`
	BrandName   string    `json:"brandName,omitempty"`
	WoodName    string    `json:"woodName,omitempty"`
}
