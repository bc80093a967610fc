// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// DVFTable represents the 'dvf' table. Column names follow the public
// "Demandes de valeurs foncières" export.
type DVFTable struct {
	Table          string
	MutationID     string
	MutationDate   string
	MutationNature string
	Price          string
	StreetNumber   string
	StreetName     string
	PostalCode     string
	CommuneCode    string
	Municipality   string
	ParcelID       string
	PropertyType   string
	BuiltSurface   string
	LandSurface    string
	Longitude      string
	Latitude       string
}

// DVF is the schema definition for dvf
var DVF = DVFTable{
	Table:          "dvf",
	MutationID:     "id_mutation",
	MutationDate:   "date_mutation",
	MutationNature: "nature_mutation",
	Price:          "valeur_fonciere",
	StreetNumber:   "adresse_numero",
	StreetName:     "adresse_nom_voie",
	PostalCode:     "code_postal",
	CommuneCode:    "code_commune",
	Municipality:   "nom_commune",
	ParcelID:       "id_parcelle",
	PropertyType:   "type_local",
	BuiltSurface:   "surface_reelle_bati",
	LandSurface:    "surface_terrain",
	Longitude:      "longitude",
	Latitude:       "latitude",
}

// Columns returns all column names, in table order
func (t DVFTable) Columns() []string {
	return []string{
		t.MutationID, t.MutationDate, t.MutationNature, t.Price, t.StreetNumber,
		t.StreetName, t.PostalCode, t.CommuneCode, t.Municipality, t.ParcelID,
		t.PropertyType, t.BuiltSurface, t.LandSurface, t.Longitude, t.Latitude,
	}
}
