package model

// DefaultLibraries returns the seed roster. It is used on first run and
// whenever the persisted roster cannot be read. Returns fresh copies so
// callers can mutate freely.
func DefaultLibraries() []*Library {
	return []*Library{
		{ID: "gehu-central", Name: "Central Library", Building: "Graphic Era Hill University", TotalSpots: 16, AvailableSpots: 16, Lat: 30.2723733, Lng: 77.9997382, AdminPin: "1111"},
		{ID: "gehu-law", Name: "Law Library", Building: "GEHU Law Block", TotalSpots: 10, AvailableSpots: 10, Lat: 30.2720000, Lng: 77.9990000, AdminPin: "2222"},
		{ID: "santoshanad", Name: "Santoshanad Library", Building: "Santoshanad Block", TotalSpots: 12, AvailableSpots: 12, Lat: 30.2673625, Lng: 77.9931595, AdminPin: "3333"},
		{ID: "csit-block", Name: "CSIT Block Library", Building: "CSIT Department", TotalSpots: 8, AvailableSpots: 8, Lat: 30.2688125, Lng: 77.9907376, AdminPin: "4444"},
		{ID: "chanakya", Name: "Chanakya Block Library", Building: "Chanakya Block", TotalSpots: 10, AvailableSpots: 10, Lat: 30.2676875, Lng: 77.9937376, AdminPin: "5555"},
	}
}
