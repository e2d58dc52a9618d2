// Package command defines the canonical command envelope and contract used
// across the write path.
//
// Commands express intent from API callers and tooling. They are the stable
// boundary before domain deciders, so that game rules are evaluated only
// against normalized inputs with actor identity already settled.
package command
