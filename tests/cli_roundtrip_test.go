package tests_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"

	"github.com/treblenaX/BinaryStream/tests/testutils"
)

// TestPackUnpack round-trips integer values through the built binary:
// pack to a bit stream, unpack it back, compare the decoded text.
func TestPackUnpack(t *testing.T) {
	t.Parallel()

	testCase := testutils.Setup()
	testCase.Description = "pack/unpack round trip"
	testCase.SubTests = []*test.Case{
		packedBytesCase(),
		roundTripCase("9bit", "9", "341 0 511 256"),
		roundTripCase("1bit", "1", "1 0 1 1 0"),
		roundTripCase("12bit_zstd", "12", "0 1 4095 2048 1234", "--zstd"),
	}

	testCase.Run(t)
}

// packedBytesCase pins the wire format: a single 9-bit 341 packs to
// 0xAA 0x80.
func packedBytesCase() *test.Case {
	return &test.Case{
		Description: "packed bytes are byte-exact",
		Setup: func(data test.Data, _ test.Helpers) {
			_ = os.WriteFile(data.Temp().Path("values.txt"), []byte("341\n"), 0o600)
		},
		Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
			return helpers.Command("pack",
				"-w", "9",
				"-o", data.Temp().Path("packed.bin"),
				data.Temp().Path("values.txt"),
			)
		},
		Expected: func(data test.Data, _ test.Helpers) *test.Expected {
			return &test.Expected{
				ExitCode: expect.ExitCodeSuccess,
				Output: func(_ string, t tig.T) {
					t.Helper()

					packed, err := os.ReadFile(data.Temp().Path("packed.bin"))
					if err != nil {
						t.Log("reading packed output: " + err.Error())
						t.Fail()

						return
					}

					if len(packed) != 2 || packed[0] != 0xAA || packed[1] != 0x80 {
						t.Log(fmt.Sprintf("packed bytes: got % 02X, want AA 80", packed))
						t.Fail()
					}
				},
			}
		},
	}
}

func roundTripCase(name, width, values string, packFlags ...string) *test.Case {
	return &test.Case{
		Description: name,
		Setup: func(data test.Data, helpers test.Helpers) {
			valuesPath := data.Temp().Path("values.txt")
			_ = os.WriteFile(valuesPath, []byte(values+"\n"), 0o600)

			args := []string{"pack", "-w", width, "-o", data.Temp().Path("packed.bin")}
			args = append(args, packFlags...)
			args = append(args, valuesPath)

			helpers.Command(args...).Run(&test.Expected{ExitCode: expect.ExitCodeSuccess})
		},
		Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
			args := []string{"unpack", "-w", width}
			args = append(args, packFlags...)
			args = append(args, data.Temp().Path("packed.bin"))

			return helpers.Command(args...)
		},
		Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
			want := strings.Fields(values)

			return &test.Expected{
				ExitCode: expect.ExitCodeSuccess,
				Output: func(stdout string, t tig.T) {
					t.Helper()

					got := strings.Fields(stdout)
					if len(got) != len(want) {
						t.Log(fmt.Sprintf("decoded %d values, want %d", len(got), len(want)))
						t.Fail()

						return
					}

					for i := range want {
						if got[i] != want[i] {
							t.Log(fmt.Sprintf("value %d: got %s, want %s", i, got[i], want[i]))
							t.Fail()
						}
					}
				},
			}
		},
	}
}
