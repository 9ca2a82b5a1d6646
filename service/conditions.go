package service

// MapWMOCode maps a WMO weather interpretation code to a human-readable
// description and an icon token. isDay selects the day/night icon variant;
// the overcast (04) and fog (50) icons have no night variant and always get
// the day suffix. Unmatched codes map to ("Unknown", "01"+suffix).
func MapWMOCode(code, isDay int) (string, string) {
	description := "Unknown"
	icon := "01"

	switch {
	case code == 0:
		description, icon = "Clear sky", "01"
	case code == 1:
		description, icon = "Mainly clear", "01"
	case code == 2:
		description, icon = "Partly cloudy", "02"
	case code == 3:
		description, icon = "Overcast", "04"
	case code == 45:
		description, icon = "Fog", "50"
	case code == 48:
		description, icon = "Depositing rime fog", "50"
	case code >= 51 && code <= 55:
		icon = "09"
		switch code {
		case 51:
			description = "Light drizzle"
		case 53:
			description = "Moderate drizzle"
		default:
			description = "Dense drizzle"
		}
	case code == 56 || code == 57:
		// No dedicated freezing-drizzle icon; the shower rain icon stands in
		icon = "09"
		if code == 56 {
			description = "Light freezing drizzle"
		} else {
			description = "Dense freezing drizzle"
		}
	case code >= 61 && code <= 65:
		icon = "10"
		switch code {
		case 61:
			description = "Slight rain"
		case 63:
			description = "Moderate rain"
		default:
			description = "Heavy rain"
		}
	case code == 66 || code == 67:
		icon = "10"
		if code == 66 {
			description = "Light freezing rain"
		} else {
			description = "Heavy freezing rain"
		}
	case code >= 71 && code <= 75:
		icon = "13"
		switch code {
		case 71:
			description = "Slight snow fall"
		case 73:
			description = "Moderate snow fall"
		default:
			description = "Heavy snow fall"
		}
	case code == 77:
		description, icon = "Snow grains", "13"
	case code >= 80 && code <= 82:
		icon = "09"
		switch code {
		case 80:
			description = "Slight rain showers"
		case 81:
			description = "Moderate rain showers"
		default:
			description = "Violent rain showers"
		}
	case code == 85 || code == 86:
		icon = "13"
		if code == 85 {
			description = "Slight snow showers"
		} else {
			description = "Heavy snow showers"
		}
	case code == 95:
		description, icon = "Thunderstorm", "11"
	case code == 96 || code == 99:
		icon = "11"
		if code == 96 {
			description = "Thunderstorm with slight hail"
		} else {
			description = "Thunderstorm with heavy hail"
		}
	}

	if icon == "04" || icon == "50" {
		return description, icon + "d"
	}
	if isDay != 0 {
		return description, icon + "d"
	}
	return description, icon + "n"
}
