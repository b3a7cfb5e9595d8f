// Package gui is the raylib window front end: the simulation on the left,
// the parameter panel on the right.
package gui
