package platform

// DefaultAppName is reported to the notification service when Options.AppName
// is empty.
const DefaultAppName = "Sketchpad"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	AppName string
	// IconPath points to an image shown with the notification where supported.
	IconPath string
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
