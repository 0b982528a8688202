package geocode

import "strconv"

// Result is a confidently geocoded address. A nil *Result means no precise
// match was found.
type Result struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DisplayLabel string  `json:"displayLabel"`
}

// Place mirrors the parts of a Nominatim search result the locator reads.
// Every field is optional; a missing field counts as "not a match".
type Place struct {
	DisplayName string        `json:"display_name"`
	Lat         string        `json:"lat"`
	Lon         string        `json:"lon"`
	Class       string        `json:"class"`
	Type        string        `json:"type"`
	AddressType string        `json:"addresstype"`
	Address     *PlaceAddress `json:"address"`
}

// PlaceAddress is the structured address block returned with addressdetails=1.
type PlaceAddress struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

// addressLevelTypes are result types that point at a single building.
var addressLevelTypes = map[string]bool{
	"house":    true,
	"building": true,
	"address":  true,
}

// isAddressLevel reports whether the place is a building or address rather
// than a street or locality.
func (p Place) isAddressLevel() bool {
	return addressLevelTypes[p.Type] || p.Class == "building" || addressLevelTypes[p.AddressType]
}

// inCity compares the provider's own city fields verbatim.
func (p Place) inCity(city string) bool {
	if p.Address == nil || city == "" {
		return false
	}
	return p.Address.City == city || p.Address.Town == city || p.Address.Municipality == city
}

// precise reports whether the place carries a house number, is address level
// and lies in the target city.
func (p Place) precise(city string) bool {
	if p.Address == nil || p.Address.HouseNumber == "" {
		return false
	}
	return p.isAddressLevel() && p.inCity(city)
}

func (p Place) toResult() (*Result, bool) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, false
	}
	return &Result{Latitude: lat, Longitude: lon, DisplayLabel: p.DisplayName}, true
}
