package entity

// PermissionResource is a capability a page asks for.
type PermissionResource string

const (
	PermissionResourceMicrophone   PermissionResource = "MICROPHONE"
	PermissionResourceCamera       PermissionResource = "CAMERA"
	PermissionResourceDisplay      PermissionResource = "DISPLAY_CAPTURE"
	PermissionResourceGeolocation  PermissionResource = "GEOLOCATION"
	PermissionResourceNotification PermissionResource = "NOTIFICATIONS"
	PermissionResourceClipboard    PermissionResource = "CLIPBOARD"
	PermissionResourceMIDISysex    PermissionResource = "MIDI_SYSEX"
	PermissionResourceDeviceInfo   PermissionResource = "DEVICE_INFO"
)

// PermissionRequest is the payload of MethodPermissionRequest.
type PermissionRequest struct {
	Origin    string               `json:"origin"`
	FrameURL  string               `json:"frameUrl,omitempty"`
	Resources []PermissionResource `json:"resources"`
}

// PermissionDecision is what the renderer finally applies.
type PermissionDecision struct {
	Granted   bool
	Resources []PermissionResource
}

// PermissionResourcesToStrings converts resources to strings for logging.
func PermissionResourcesToStrings(resources []PermissionResource) []string {
	result := make([]string, len(resources))
	for i, r := range resources {
		result[i] = string(r)
	}
	return result
}
