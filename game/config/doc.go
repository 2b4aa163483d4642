// Package config loads the runtime settings of the battleships server and
// console game.
//
// Settings come from environment variables, optionally seeded from a .env
// file in the working directory:
//
//	BATTLESHIPS_HOST              listen host (127.0.0.1)
//	BATTLESHIPS_PORT              listen port (8080)
//	BATTLESHIPS_CPU_DELAY         pause before the console shows CPU shots (750ms)
//	BATTLESHIPS_SESSION_TTL       idle time before a session is removed (24h)
//	BATTLESHIPS_CLEANUP_INTERVAL  how often idle sessions are pruned (1h)
//	BATTLESHIPS_SEED              CPU seed, 0 picks a random one
//	BATTLESHIPS_LAYOUT_DIR        directory of fleet layout files (layouts)
//	BATTLESHIPS_DEBUG             file:line in log output
//
// Usage:
//
//	settings, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	addr := settings.Addr()
//
// Command line flags override the loaded values.
package config
