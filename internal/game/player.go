package game

type ConnectionType string

const (
	ConnectionHost      ConnectionType = "HOST"
	ConnectionBluetooth ConnectionType = "BLUETOOTH"
	// ConnectionLAN is domain-model scaffolding; no LAN transport exists.
	ConnectionLAN ConnectionType = "LAN"
)

type Platform string

const (
	PlatformAndroid Platform = "ANDROID"
	PlatformIOS     Platform = "IOS"
	PlatformLinux   Platform = "LINUX"
)

type DeviceInfo struct {
	Platform   Platform `json:"platform"`
	DeviceName string   `json:"deviceName"`
	Version    string   `json:"version"`
}

type Player struct {
	ID             PlayerID       `json:"id"`
	Name           string         `json:"name"`
	IsHost         bool           `json:"isHost"`
	IsImpostor     bool           `json:"isImpostor"`
	Lives          int            `json:"lives"`
	IsConnected    bool           `json:"isConnected"`
	ConnectionType ConnectionType `json:"connectionType"`
	DeviceInfo     DeviceInfo     `json:"deviceInfo"`
}

func NewHostPlayer(name string, lives int, device DeviceInfo) Player {
	return Player{
		ID:             NewPlayerID(),
		Name:           name,
		IsHost:         true,
		Lives:          lives,
		IsConnected:    true,
		ConnectionType: ConnectionHost,
		DeviceInfo:     device,
	}
}

func NewPeerPlayer(name string, lives int, device DeviceInfo) Player {
	return Player{
		ID:             NewPlayerID(),
		Name:           name,
		Lives:          lives,
		IsConnected:    true,
		ConnectionType: ConnectionBluetooth,
		DeviceInfo:     device,
	}
}

// IsAlive reports whether the player still takes part in round resolution.
// Dead players stay in the roster for display.
func (p Player) IsAlive() bool {
	return p.Lives > 0
}
