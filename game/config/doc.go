// Package config provides map discovery and settings loading for the collect game.
//
// Maps:
//
// Manager serves the map files of a directory. A map named "level1" lives in
// "level1.txt" and must pass level validation before it is listed or loaded.
// Loaded maps are cached until RefreshCache is called. The default map is
// "map" when present, otherwise the first valid map by name. SetDefault picks
// another one.
//
//	maps, err := config.NewManager("maps")
//	if err != nil {
//		log.Fatal(err)
//	}
//	lvl, err := maps.LoadMap("level1")
//
// Settings:
//
// LoadSettings layers tuning values: built-in defaults, then an optional YAML
// file, then environment variables.
//
//	tile_size: 48
//	tick_rate: 60
//	enemy_step_delay: 30
//	animation_delay: 8
//	maps_dir: maps
//	default_map: level2
//	session_ttl: 24h
//
// Environment overrides use the COLLECT_ prefix, for example
// COLLECT_TICK_RATE=30 or COLLECT_SESSION_TTL=1h.
package config
