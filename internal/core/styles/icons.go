package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconTrack    = "\uf001"     // music
	IconArtist   = "\uf007"     // user
	IconAlbum    = "\U000F0025" // album
	IconPlaylist = "\U000F0CB8" // playlist
	IconSearch   = "\uf002"     // search
	IconQueue    = "\U000F0CB9" // playlist-plus
)

// Notification icons
var (
	IconNotifyInfo    = "\uf05a" // info-circle
	IconNotifyWarning = "\uf071" // warning
	IconNotifyError   = "\uf057" // times-circle
)

// KindIcon returns the icon for a catalog item kind.
func KindIcon(kind string) string {
	switch kind {
	case "track":
		return IconTrack
	case "artist":
		return IconArtist
	case "album":
		return IconAlbum
	case "playlist":
		return IconPlaylist
	default:
		return IconSearch
	}
}
