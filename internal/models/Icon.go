package models

const unknownDescription = "Unbekannt"

var iconDescriptions = map[int]string{
	1:  "Sonnig",
	2:  "Sonne, leicht bewölkt",
	3:  "Sonne, bewölkt",
	4:  "Wolkig",
	5:  "Nebel",
	6:  "Nebel, Rutschgefahr",
	7:  "Leichter Regen",
	8:  "Regen",
	9:  "Starker Regen",
	10: "Leichter Regen, Rutschgefahr",
	11: "Starker Regen, Rutschgefahr",
	12: "Regen, vereinzelt Schneefall",
	13: "Regen, vermehrt Schneefall",
	14: "Leichter Schneefall",
	15: "Schneefall",
	16: "Starker Schneefall",
	17: "Wolken (Hagel)",
	18: "Sonne, leichter Regen",
	19: "Sonne, starker Regen",
	20: "Sonne, Regen, vereinzelter Schneefall",
	21: "Sonne, Regen, vermehrter Schneefall",
	22: "Sonne, vereinzelter Schneefall",
	23: "Sonne, vermehrter Schneefall",
	24: "Sonne (Hagel)",
	25: "Sonne (starker Hagel)",
	26: "Gewitter",
	27: "Gewitter, Regen",
	28: "Gewitter, starker Regen",
	29: "Gewitter (Hagel)",
	30: "Gewitter (starker Hagel)",
	31: "Wind",
}

// IconDescription returns the German condition text for a warnwetter icon code.
func IconDescription(icon int) string {
	if d, ok := iconDescriptions[icon]; ok {
		return d
	}
	return unknownDescription
}
