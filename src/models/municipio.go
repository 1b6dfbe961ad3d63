package models

// Municipality is one record of the static municipality list.
// Codigo is the beneficiary code expected by the upstream API.
type Municipality struct {
	Codigo    int    `json:"codigo"`
	Municipio string `json:"municipio"`
	UF        string `json:"uf"`
}
