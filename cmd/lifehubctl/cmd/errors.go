package cmd

import (
	"log"

	"github.com/lifehubapp/lifehub/pkg/sdk/sdkerr"
)

// exitIfSdkError inspects errors returned from the SDK and emits user-friendly
// guidance before exiting. Non-SDK errors fall back to log.Fatalf.
func exitIfSdkError(err error) {
	if err == nil {
		return
	}
	switch {
	case sdkerr.IsCode(err, sdkerr.CodeUnauthorized):
		log.Fatalf("authentication required: run 'lifehubctl auth login' (%v)", err)
	case sdkerr.IsCode(err, sdkerr.CodeExpiredToken):
		log.Fatalf("session expired: run 'lifehubctl auth login' (%v)", err)
	default:
		log.Fatalf("%v", err)
	}
}
