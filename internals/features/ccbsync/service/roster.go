package service

import (
	"strings"

	"github.com/clbanning/mxj/v2"

	"circleops_backend/internals/features/ccbsync/normalize"
)

// group_participants response navigation. The participant list nests under
// groups/group/participants and suffers the usual singleton collapses.

func participantNodes(doc mxj.Map) []interface{} {
	return normalize.DigSlice(map[string]interface{}(doc),
		"ccb_api", "response", "groups", "group", "participants", "participant")
}

func participantID(node interface{}) string {
	return normalize.IDOf(node, "id", "individual_id")
}

func participantName(node interface{}) string {
	if name := normalize.Str(normalize.Dig(node, "name")); name != "" {
		return name
	}
	first := normalize.Str(normalize.Dig(node, "first_name"))
	last := normalize.Str(normalize.Dig(node, "last_name"))
	return strings.TrimSpace(first + " " + last)
}

func participantField(node interface{}, key string) string {
	return normalize.Str(normalize.Dig(node, key))
}
