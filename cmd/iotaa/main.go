// Command iotaa loads a task module and runs (or inspects) the workflow
// rooted at one of its tasks.
package main

import "github.com/maddenp/iotaa-go/cmd/iotaa/internal"

func main() {
	internal.Execute()
}
