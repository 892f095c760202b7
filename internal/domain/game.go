package domain

// Game is a supported truck simulator
type Game struct {
	ID         string // Short slug, e.g. "ets2"
	Name       string // Display name, also the name of the game's home directory
	SteamAppID string // Steam App ID, used to find Proton prefixes
	HomePath   string // Directory holding profiles/, steam_profiles/ and mod/ (may be empty if unknown)
}

// GameProfile is a profile directory found inside a game's home directory
type GameProfile struct {
	GameID  string
	Name    string // Decoded profile name
	DirName string // Directory name on disk (hex-encoded name)
	Path    string // Path to profile.sii
	Steam   bool   // Found under steam_profiles/ (Steam Cloud) rather than profiles/
}
