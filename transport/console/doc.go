// Package console plays a session in a terminal.
//
// Two front ends drive service.GameService in-process. Console reads one
// command per line and prints both boards after every change. In single
// player the cpu's replies are printed one by one with a short pause
// between them; in multiplayer the two seats share the keyboard.
//
// Screen draws the boards full screen with warships-gui and fires at the
// cell clicked on the opponent board. Fleets are placed before the battle
// from a stored layout or at random.
//
// Usage:
//
//	c := console.New(gameService, os.Stdin, os.Stdout, console.WithCPUDelay(750*time.Millisecond))
//	if err := c.Run(ctx, "single", ""); err != nil {
//		log.Fatal(err)
//	}
//
//	err := console.NewScreen(gameService).Run(ctx, "single", "classic")
package console
