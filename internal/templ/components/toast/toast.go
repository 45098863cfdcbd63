// Package toast renders the notification surface shared by every auth page.
package toast

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/DukeRupert/authui/internal/notify"
)

//go:generate templ generate

// ContainerID is the element toasts are appended to. Partial responses target
// it with an out-of-band swap.
const ContainerID = "toasts"

const baseClass = "pointer-events-auto w-full rounded-lg border bg-white p-4 shadow-lg"

var kindClass = map[notify.Kind]string{
	notify.KindSuccess: "border-green-300 bg-green-50 text-green-800",
	notify.KindInfo:    "border-blue-300 bg-blue-50 text-blue-800",
	notify.KindError:   "border-red-300 bg-red-50 text-red-800",
}

// Class returns the merged tailwind classes for a toast of kind.
func Class(kind notify.Kind) string {
	return twmerge.Merge(baseClass, kindClass[kind])
}
