package vavoo

// The ping endpoint only hands out a signature when the request body matches
// what a real Android client reports. The values below mirror app version
// 3.0.2 on a Nexus 5 and must move in lockstep with each other.
const (
	appBinaryVersion = "3.0.2"
	appJSVersion     = "3.1.4"
	appPackage       = "tv.vavoo.app"

	pingToken = "8Us2TfjeOFrzqFFTEjL3E5KfdAWGa5PV3wQe60uK4BmzlkJRMYFu0ufaM_eeDXKS2U04XUuhbDTgGRJrJARUwzDyCcRToXhW5AcDekfFMfwNUjuieeQ1uzeDB9YWyBL2cn5Al3L3gTnF8Vk1t7rPwkBob0swvxA"
)

type pingRequest struct {
	Token         string       `json:"token"`
	Reason        string       `json:"reason"`
	Locale        string       `json:"locale"`
	Theme         string       `json:"theme"`
	Metadata      pingMetadata `json:"metadata"`
	AppFocusTime  int          `json:"appFocusTime"`
	PlayerActive  bool         `json:"playerActive"`
	PlayDuration  int          `json:"playDuration"`
	DevMode       bool         `json:"devMode"`
	HasAddon      bool         `json:"hasAddon"`
	CastConnected bool         `json:"castConnected"`
	Package       string       `json:"package"`
	Version       string       `json:"version"`
	Process       string       `json:"process"`
	FirstAppStart int64        `json:"firstAppStart"`
	LastAppStart  int64        `json:"lastAppStart"`
	IPLocation    string       `json:"ipLocation"`
	AdblockOn     bool         `json:"adblockEnabled"`
	Proxy         pingProxy    `json:"proxy"`
	IAP           pingIAP      `json:"iap"`
}

type pingMetadata struct {
	Device  pingDevice     `json:"device"`
	OS      pingOS         `json:"os"`
	App     pingApp        `json:"app"`
	Version pingVersionSet `json:"version"`
}

type pingDevice struct {
	Type     string `json:"type"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Name     string `json:"name"`
	UniqueID string `json:"uniqueId"`
}

type pingOS struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	ABIs    []string `json:"abis"`
	Host    string   `json:"host"`
}

type pingApp struct {
	Platform   string   `json:"platform"`
	Version    string   `json:"version"`
	BuildID    string   `json:"buildId"`
	Engine     string   `json:"engine"`
	Signatures []string `json:"signatures"`
	Installer  string   `json:"installer"`
}

type pingVersionSet struct {
	Package string `json:"package"`
	Binary  string `json:"binary"`
	JS      string `json:"js"`
}

type pingProxy struct {
	Supported  []string `json:"supported"`
	Engine     string   `json:"engine"`
	Enabled    bool     `json:"enabled"`
	AutoServer bool     `json:"autoServer"`
	ID         string   `json:"id"`
}

type pingIAP struct {
	Supported bool `json:"supported"`
}

func signaturePayload() pingRequest {
	return pingRequest{
		Token:  pingToken,
		Reason: "player.enter",
		Locale: "de",
		Theme:  "dark",
		Metadata: pingMetadata{
			Device: pingDevice{
				Type:     "Handset",
				Brand:    "google",
				Model:    "Nexus 5",
				Name:     "21081111RG",
				UniqueID: "d10e5d99ab665233",
			},
			OS: pingOS{
				Name:    "android",
				Version: "7.1.2",
				ABIs:    []string{"arm64-v8a", "armeabi-v7a", "armeabi"},
				Host:    "android",
			},
			App: pingApp{
				Platform:   "android",
				Version:    appBinaryVersion,
				BuildID:    "288045000",
				Engine:     "jsc",
				Signatures: []string{"09f4e07040149486e541a1cb34000b6e12527265252fa2178dfe2bd1af6b815a"},
				Installer:  "com.android.secex",
			},
			Version: pingVersionSet{
				Package: appPackage,
				Binary:  appBinaryVersion,
				JS:      appJSVersion,
			},
		},
		AppFocusTime:  27229,
		PlayerActive:  true,
		HasAddon:      true,
		Package:       appPackage,
		Version:       appJSVersion,
		Process:       "app",
		FirstAppStart: 1728674705639,
		LastAppStart:  1728674705639,
		AdblockOn:     true,
		Proxy: pingProxy{
			Supported:  []string{"ss"},
			Engine:     "ss",
			AutoServer: true,
			ID:         "ca-bhs",
		},
	}
}
