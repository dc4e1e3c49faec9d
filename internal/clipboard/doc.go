// Package clipboard moves images and text between the viewer and the system
// clipboard. On unix it needs a running display server and cgo; other
// configurations degrade to descriptive errors.
package clipboard
