package models

// QualityFromHeight maps a stream variant's vertical resolution to a quality
// tier. Boundaries are inclusive: exactly 1080 lines is 1080p, not 720p.
func QualityFromHeight(height int) QualityOption {
	switch {
	case height >= 2160:
		return Quality4K
	case height >= 1080:
		return Quality1080p
	case height >= 720:
		return Quality720p
	default:
		return Quality480p
	}
}

// QualityProfile describes the encoding target behind a quality tier
type QualityProfile struct {
	Quality      QualityOption `json:"quality"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	VideoBitrate int64         `json:"video_bitrate"`
	AudioBitrate int           `json:"audio_bitrate"`
}

// Standard quality profiles based on industry ladder conventions
var (
	// Profile4K represents 4K/UHD
	Profile4K = QualityProfile{
		Quality:      Quality4K,
		Width:        3840,
		Height:       2160,
		VideoBitrate: 20000000, // 20 Mbps
		AudioBitrate: 192000,   // 192 kbps
	}

	// Profile1080p represents Full HD
	Profile1080p = QualityProfile{
		Quality:      Quality1080p,
		Width:        1920,
		Height:       1080,
		VideoBitrate: 6500000, // 6.5 Mbps
		AudioBitrate: 128000,  // 128 kbps
	}

	// Profile720p represents HD
	Profile720p = QualityProfile{
		Quality:      Quality720p,
		Width:        1280,
		Height:       720,
		VideoBitrate: 3500000, // 3.5 Mbps
		AudioBitrate: 128000,  // 128 kbps
	}

	// Profile480p represents SD
	Profile480p = QualityProfile{
		Quality:      Quality480p,
		Width:        854,
		Height:       480,
		VideoBitrate: 1500000, // 1.5 Mbps
		AudioBitrate: 96000,   // 96 kbps
	}
)

// QualityLadder returns all standard profiles in ascending order
func QualityLadder() []QualityProfile {
	return []QualityProfile{
		Profile480p,
		Profile720p,
		Profile1080p,
		Profile4K,
	}
}

// GetQualityProfile returns the profile for a quality tier name
func GetQualityProfile(name string) *QualityProfile {
	profiles := map[string]QualityProfile{
		"480p":  Profile480p,
		"720p":  Profile720p,
		"1080p": Profile1080p,
		"4K":    Profile4K,
		"2160p": Profile4K,
	}

	if profile, ok := profiles[name]; ok {
		return &profile
	}
	return nil
}
