// s3warden — S3 security baseline auditor and remediator.
package main

import "github.com/ppiankov/s3warden/internal/cli"

func main() {
	cli.Execute()
}
