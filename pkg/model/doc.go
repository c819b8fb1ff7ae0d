// Package model defines the typed form description shared by validation,
// submission and rendering: fields and their kinds, the payload mapping and
// the length limits. Raw control state travels as url.Values, shaped the way
// a browser posts a form: text controls and radios hold one value, a checked
// checkbox holds "on" and a checkbox group holds every checked option.
// Collect and Restore convert between that state and the Data snapshot that
// is submitted and autosaved.
package model
