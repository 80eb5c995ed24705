package models

// Coordinate is a point on the earth's surface in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// ShipmentRecord is one row of the uploaded file: where the shipment was
// supposed to be delivered and where the courier actually dropped it off.
type ShipmentRecord struct {
	ShipmentCode string
	Delivery     Coordinate
	Dropoff      Coordinate
}

// EvaluatedRecord is a ShipmentRecord plus its delivery-vs-dropoff distance.
// DistanceMeters is fully determined by the four coordinates.
type EvaluatedRecord struct {
	ShipmentRecord
	DistanceMeters float64
}
