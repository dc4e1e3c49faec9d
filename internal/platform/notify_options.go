package platform

// Options carries the cross-platform notification extras. Backends that
// cannot honor a field ignore it.
type Options struct {
	// IconPath is an image file shown beside the notification where the
	// platform supports one (the dbus backend passes it as the app icon).
	IconPath string
}
