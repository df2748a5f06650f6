package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	stepmidi "go-stepbox/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "watch":
		watchInput()
	case "send":
		sendTest()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  watch   - Print incoming notes and their pattern mapping")
	fmt.Println("  send    - Send a test note to each output port")
	fmt.Println("  poll    - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI backend is hung.")
	}
}

func watchInput() {
	fmt.Println("Watching all input ports. Play pattern keys to see their mapping. Ctrl+C to exit.")

	for _, inPort := range midi.GetInPorts() {
		port := inPort
		_, err := midi.ListenTo(port, func(msg midi.Message, timestampms int32) {
			var ch, note, velocity uint8
			on := false
			switch {
			case msg.GetNoteStart(&ch, &note, &velocity):
				on = true
			case msg.GetNoteEnd(&ch, &note):
			default:
				return
			}

			state := "off"
			if on {
				state = "on "
			}
			mapping := "unmapped"
			if inst, pattern, ok := stepmidi.MapNote(note); ok {
				mapping = fmt.Sprintf("%s pattern %d", inst, pattern+1)
			}
			fmt.Printf("[%s] %s ch=%d note=%d %s -> %s\n",
				time.Now().Format("15:04:05.000"), port.String(), ch+1, note, state, mapping)
		})
		if err != nil {
			fmt.Printf("listen %s: %v\n", port.String(), err)
		}
	}

	select {}
}

func sendTest() {
	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		fmt.Println("No output ports")
		return
	}

	for _, p := range outs {
		fmt.Printf("Sending test note to %s...\n", p.String())
		send, err := midi.SendTo(p)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		send(midi.NoteOn(9, 36, 100)) // kick on the percussion channel
		time.Sleep(200 * time.Millisecond)
		send(midi.NoteOff(9, 36))
	}
	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()

		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
