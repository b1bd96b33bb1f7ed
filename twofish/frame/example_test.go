package frame_test

import (
	"fmt"

	"github.com/TheusHen/TwoFish/twofish/frame"
)

func ExampleCodec() {
	codec, err := frame.NewCodec([]byte("test"), frame.Options{})
	if err != nil {
		panic(err)
	}

	ct, err := codec.Encrypt([]byte("Hello, Twofish!"), false)
	if err != nil {
		panic(err)
	}
	pt, err := codec.Decrypt(ct, false)
	if err != nil {
		panic(err)
	}

	fmt.Println(len(ct))
	fmt.Println(string(pt))
	// Output:
	// 31
	// Hello, Twofish!
}

func ExampleEncodeHex() {
	fmt.Println(string(frame.EncodeHex([]byte{0xde, 0xad, 0xbe, 0xef})))
	// Output: deadbeef
}
