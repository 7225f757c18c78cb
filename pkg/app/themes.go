package app

type Theme struct {
	ID     string
	Name   string
	Secret bool
}

const DefaultTheme = "default"

// BaseThemes are offered without being unlocked.
var BaseThemes = []Theme{
	{ID: DefaultTheme, Name: "Default"},
}

// SecretThemes holds the display names of themes which must be unlocked.
var SecretThemes = map[string]string{
	"nature": "Nice Nature (Bronze)",
	"hina":   "Hina (Purple)",
}

func secretTheme(id string) Theme {
	name, ok := SecretThemes[id]
	if !ok {
		name = id
	}
	return Theme{ID: id, Name: name, Secret: true}
}
