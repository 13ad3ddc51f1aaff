package assistant

import (
	"fmt"
	"strings"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/geo"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/store"
)

// Activity is everything loaded for one request, across all of the
// parent's children.
type Activity struct {
	Children  []store.Child
	Calls     []store.CallLogEntry
	Messages  []store.ChatMessage
	Locations []store.LocationSample
	Zones     []store.SafeZone
}

// latestLocations returns the newest sample of each child, in child order.
func latestLocations(children []store.Child, samples []store.LocationSample) []store.LocationSample {
	latest := make(map[string]store.LocationSample, len(children))
	for _, sample := range samples {
		current, ok := latest[sample.ChildID]
		if !ok || sample.CapturedAt.After(current.CapturedAt) {
			latest[sample.ChildID] = sample
		}
	}
	result := make([]store.LocationSample, 0, len(latest))
	for _, child := range children {
		if sample, ok := latest[child.ID]; ok {
			result = append(result, sample)
		}
	}
	return result
}

func zonesFor(zones []store.SafeZone, childID string) []geo.Zone {
	result := make([]geo.Zone, 0)
	for _, zone := range zones {
		if zone.ChildID != childID {
			continue
		}
		result = append(result, geo.Zone{
			Name:         zone.Name,
			Latitude:     zone.Latitude,
			Longitude:    zone.Longitude,
			RadiusMeters: zone.RadiusMeters,
		})
	}
	return result
}

func evaluateChild(childID string, latest []store.LocationSample, zones []store.SafeZone) (geo.ZoneStatus, *store.LocationSample) {
	for i := range latest {
		if latest[i].ChildID != childID {
			continue
		}
		sample := latest[i]
		point := &geo.Point{Latitude: sample.Latitude, Longitude: sample.Longitude}
		return geo.EvaluateZones(point, zonesFor(zones, childID)), &sample
	}
	return geo.EvaluateZones(nil, nil), nil
}

func describeZoneStatus(status geo.ZoneStatus) string {
	switch status.Status {
	case geo.StatusInside:
		return fmt.Sprintf("berada di dalam zona aman %q", status.ZoneName)
	case geo.StatusOutside:
		return "berada di luar semua zona aman"
	default:
		return "lokasi belum terdeteksi"
	}
}

// BuildContext summarizes each child for the generative model: safe-zone
// status, recent calls and recent messages. Blocks are separated by a divider.
func BuildContext(activity Activity) string {
	latest := latestLocations(activity.Children, activity.Locations)
	blocks := make([]string, 0, len(activity.Children))
	for _, child := range activity.Children {
		name := strings.TrimSpace(child.Name)
		if name == "" {
			name = unknownChildName
		}
		status, sample := evaluateChild(child.ID, latest, activity.Zones)

		lines := []string{
			fmt.Sprintf("=== %s ===", name),
			fmt.Sprintf("Status zona aman: %s", describeZoneStatus(status)),
		}
		if sample != nil {
			lines = append(lines, fmt.Sprintf(
				"Lokasi terakhir: %s, %s (%s)",
				formatCoord(sample.Latitude),
				formatCoord(sample.Longitude),
				formatWIB(sample.CapturedAt),
			))
		}

		lines = append(lines, "Panggilan terbaru:")
		calls := childCalls(activity.Calls, child.ID)
		if len(calls) == 0 {
			lines = append(lines, "- tidak ada panggilan")
		}
		for _, call := range newestCalls(calls, maxCallLines) {
			lines = append(lines, "- "+formatCallLine(call, name))
		}

		lines = append(lines, "Pesan terbaru:")
		messages := newestMessages(activity.Messages, child.ID, maxMessageLines)
		if len(messages) == 0 {
			lines = append(lines, "- tidak ada pesan")
		}
		for _, message := range messages {
			lines = append(lines, "- "+formatMessageLine(message))
		}

		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, contextDivider)
}

func childCalls(calls []store.CallLogEntry, childID string) []store.CallLogEntry {
	result := make([]store.CallLogEntry, 0)
	for _, call := range calls {
		if call.ChildID == childID {
			result = append(result, call)
		}
	}
	return result
}

func formatMessageLine(message store.ChatMessage) string {
	body := valueOr(message.Body, "")
	if fileType := valueOr(message.FileType, ""); fileType != "" || message.FileURL != nil {
		attachment := fmt.Sprintf("[lampiran %s: %s]", valueOr(message.FileType, "file"), valueOr(message.FileName, placeholder))
		if body == "" {
			body = attachment
		} else {
			body = body + " " + attachment
		}
	}
	if body == "" {
		body = placeholder
	}
	return fmt.Sprintf("[%s] %s", formatWIB(message.Timestamp), body)
}
