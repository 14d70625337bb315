// Package events is a test fixture for the indexer.
package events

// NameAcquired is sent when this connection acquires a name.
//
//lockstep:validate
type NameAcquired struct {
	Name string
}

// OwnerChange mirrors NameOwnerChanged.
//
//lockstep:validate signal=NameOwnerChanged
type OwnerChange struct {
	Name, OldOwner, NewOwner string
}

//lockstep:validate args
type RequestNameArgs struct {
	Name  string
	Flags uint32
}

//lockstep:validate return interface=org.freedesktop.DBus
type RequestNameReply uint32

//lockstep:validate property
type Features []string

//lockstep:validate property=Nodes
type NodeTable map[string]interface{}

// Ping is offered by two interfaces.
//
//lockstep:validate
type Ping struct {
	Serial uint32
}

//lockstep:validate signal=Ping interface=org.example.Monitor
type MonitorPing struct {
	Serial uint32
}

// NameLostEvent carries an extra field the bus does not send.
//
//lockstep:validate
type NameLostEvent struct {
	Name string
	Code int32
}

//lockstep:validate signal=NameLost
type NameLostNotice struct {
	Name   string
	Cached string `dbus:"-"`
	note   string
}

//lockstep:validate signal=Tick
type Tick struct {
	Count uint64
	Stamp struct {
		Sec, Nsec int64
	}
}

//lockstep:validate
type Unsupported struct {
	Done chan struct{}
}

// Credentials is not annotated and never validated.
type Credentials map[string]any

func (n NameLostNotice) describe() string { return n.Name + n.note }
