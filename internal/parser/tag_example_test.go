package parser

import (
	"fmt"
)

// Example demonstrating field parsing for a journal record
func ExampleParseField() {
	// struct write_args {
	// 	int code;
	// 	int offset;
	// 	int length;
	// 	void* buffer;
	// };
	lines := []string{
		"\tint code;",
		"\tint offset;",
		"\tint length;",
		"\tvoid* buffer;",
	}

	for _, line := range lines {
		f, err := ParseField(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("%-8s %-7s pointer=%v tag=%v\n", f.Type, f.Name, f.IsPointer(), f.IsTag("code"))
	}

	// Output:
	// int      code    pointer=false tag=true
	// int      offset  pointer=false tag=false
	// int      length  pointer=false tag=false
	// void *   buffer  pointer=true tag=false
}
