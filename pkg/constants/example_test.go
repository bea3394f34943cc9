package constants_test

import (
	"fmt"
	"time"

	"github.com/m365ops/contactsync/pkg/constants"
)

func Example() {
	fmt.Println(constants.GraphScope)
	fmt.Println(constants.GraphBaseURL)
	fmt.Printf("%o\n", constants.FilePermissions)
	// Output:
	// https://graph.microsoft.com/.default
	// https://graph.microsoft.com/v1.0
	// 644
}

func Example_timeouts() {
	fmt.Println("request:", constants.DefaultHTTPTimeout)
	fmt.Println("throttle backoff:", constants.RateLimitBackoff)
	// Output:
	// request: 30s
	// throttle backoff: 1m0s
}

func Example_reportName() {
	started := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	fmt.Printf("contactsync-%s.md\n", started.Format(constants.TimeFormatFilename))
	// Output: contactsync-20250314-092653.md
}
