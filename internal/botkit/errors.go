package botkit

import "fmt"

// DuplicateCommandError is returned by Registry.Register when two plugins
// claim the same command. This is a configuration defect; the entry point
// treats it as fatal.
type DuplicateCommandError struct {
	Command  string
	Existing string
	Incoming string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q already owned by plugin %q, refused for plugin %q", e.Command, e.Existing, e.Incoming)
}

// DuplicatePrefixError is returned by Registry.Register when two plugins
// declare callback namespaces with the same prefix.
type DuplicatePrefixError struct {
	Prefix   string
	Existing string
	Incoming string
}

func (e *DuplicatePrefixError) Error() string {
	return fmt.Sprintf("callback prefix %q already owned by plugin %q, refused for plugin %q", e.Prefix, e.Existing, e.Incoming)
}
