// funpokerctl drives a funpoker server from the command line: user and
// lobby management plus a live table watcher.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decred/slog"

	"github.com/funpoker/funpoker/pkg/client"
	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/utils"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: funpokerctl [-server URL] <command> [args]

Commands:
  create-user -name NAME [-email EMAIL] [-country CC]
  lobbies
  create-lobby -name NAME -author ID [-blind N]
  join -lobby ID -user ID
  start -lobby ID -user ID
  add-bot -lobby ID
  watch -user ID
`)
	os.Exit(2)
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	log := slog.NewBackend(os.Stderr).Logger("CTL")
	c := client.NewClient(*serverURL, log)

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	switch cmd {
	case "create-user":
		err = createUser(c, args)
	case "lobbies":
		err = listLobbies(c)
	case "create-lobby":
		err = createLobby(c, args)
	case "join":
		err = joinLobby(c, args)
	case "start":
		err = startGame(c, args)
	case "add-bot":
		err = addBot(c, args)
	case "watch":
		err = watch(c, args)
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func createUser(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	name := fs.String("name", "", "User name")
	email := fs.String("email", "", "Email address")
	country := fs.String("country", "", "Country code")
	fs.Parse(args)
	if *name == "" {
		return fmt.Errorf("-name is required")
	}
	u, err := c.CreateUser(*name, *email, *country)
	if err != nil {
		return err
	}
	fmt.Printf("user %d created\n", u.ID)
	return nil
}

func listLobbies(c *client.Client) error {
	lobbies, err := c.Lobbies()
	if err != nil {
		return err
	}
	if len(lobbies) == 0 {
		fmt.Println("no lobbies")
		return nil
	}
	for _, l := range lobbies {
		fmt.Printf("%d\t%s\tblind %d\t%d players\n",
			l.ID, l.Name, l.BlindSize, l.PlayersRegistered)
	}
	return nil
}

func createLobby(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("create-lobby", flag.ExitOnError)
	name := fs.String("name", "", "Lobby name")
	author := fs.Int64("author", 0, "Author user id")
	blind := fs.Int64("blind", 0, "Big blind size (0 for server default)")
	fs.Parse(args)
	if *name == "" || *author == 0 {
		return fmt.Errorf("-name and -author are required")
	}
	l, err := c.CreateLobby(*name, *author, *blind)
	if err != nil {
		return err
	}
	fmt.Printf("lobby %d created, blind %d\n", l.ID, l.BlindSize)
	return nil
}

func joinLobby(c *client.Client, args []string) error {
	lobby, user, err := lobbyUserArgs("join", args)
	if err != nil {
		return err
	}
	if err := c.JoinLobby(lobby, user); err != nil {
		return err
	}
	fmt.Println("joined")
	return nil
}

func startGame(c *client.Client, args []string) error {
	lobby, user, err := lobbyUserArgs("start", args)
	if err != nil {
		return err
	}
	if err := c.StartGame(lobby, user); err != nil {
		return err
	}
	fmt.Println("game starting")
	return nil
}

func addBot(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("add-bot", flag.ExitOnError)
	lobby := fs.Int64("lobby", 0, "Lobby id")
	fs.Parse(args)
	if *lobby == 0 {
		return fmt.Errorf("-lobby is required")
	}
	u, err := c.AddBot(*lobby)
	if err != nil {
		return err
	}
	fmt.Printf("bot %d seated\n", u.ID)
	return nil
}

func lobbyUserArgs(name string, args []string) (int64, int64, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	lobby := fs.Int64("lobby", 0, "Lobby id")
	user := fs.Int64("user", 0, "User id")
	fs.Parse(args)
	if *lobby == 0 || *user == 0 {
		return 0, 0, fmt.Errorf("-lobby and -user are required")
	}
	return *lobby, *user, nil
}

// watch connects the user's websocket and prints each table snapshot.
func watch(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	user := fs.Int64("user", 0, "User id")
	fs.Parse(args)
	if *user == 0 {
		return fmt.Errorf("-user is required")
	}

	gc, err := c.Connect(*user)
	if err != nil {
		return err
	}
	defer gc.Close()

	for {
		state, err := gc.NextState(0)
		if err != nil {
			return err
		}
		fmt.Printf("--- lobby %d, pot %d, %s\n", state.LobbyID, state.Pot, state.GameStatus)
		if state.Street != nil {
			fmt.Printf("board: %s\n", utils.FormatCards(state.Street.Cards))
		}
		if state.Cards != nil {
			fmt.Printf("hand: %s\n", utils.FormatCards([]poker.Card{
				state.Cards.First, state.Cards.Second,
			}))
		}
		for _, p := range state.Players {
			marker := " "
			if state.CurrPlayerID != nil && *state.CurrPlayerID == p.ID {
				marker = "*"
			}
			fmt.Printf("%s %s: stack %d, bet %d (%s)\n",
				marker, p.Name, p.Stack, p.StreetBet, p.Status)
		}
		if state.Showdown != nil {
			for _, w := range state.Showdown.Winners {
				fmt.Printf("player %d wins %d\n", w.PlayerID, w.Amount)
			}
		}
	}
}
