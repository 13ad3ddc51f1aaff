package geo

// Status classifies a point against a child's safe zones.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusInside  Status = "inside"
	StatusOutside Status = "outside"
)

type Point struct {
	Latitude  float64
	Longitude float64
}

type Zone struct {
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type ZoneStatus struct {
	Status   Status
	ZoneName string
}

// EvaluateZones tests point against zones in order and names the first match.
// A nil point yields StatusUnknown.
func EvaluateZones(point *Point, zones []Zone) ZoneStatus {
	if point == nil {
		return ZoneStatus{Status: StatusUnknown}
	}
	for _, zone := range zones {
		if IsInSafeZone(point.Latitude, point.Longitude, zone.Latitude, zone.Longitude, zone.RadiusMeters) {
			return ZoneStatus{Status: StatusInside, ZoneName: zone.Name}
		}
	}
	return ZoneStatus{Status: StatusOutside}
}
