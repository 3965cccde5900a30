package model

// Address is the result of a CEP lookup against the public postal
// providers. Fields mirror the ViaCEP vocabulary translated to English.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}
