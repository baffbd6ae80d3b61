// Package cardwatch listens for udev netlink events and reports camera-card
// insertions, filtered by filesystem label prefix, so the watch daemon can
// kick off imports without root-owned udev rules.
package cardwatch
