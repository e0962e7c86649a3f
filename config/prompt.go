package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type question struct {
	name  string
	label string
	upper bool
	dest  *string
}

// Create asks for the credentials and default bucket on out, reads the
// answers from in and overwrites the config file at path.
// Access and secret keys are uppercased; the bucket name is kept as typed.
func Create(path string, in io.Reader, out io.Writer) (Config, error) {
	var c Config
	questions := []question{
		{name: "access key", label: "AWS Access Key ID: ", upper: true, dest: &c.AccessKey},
		{name: "secret key", label: "   AWS Secret Key: ", upper: true, dest: &c.SecretKey},
		{name: "bucket name", label: "   Default Bucket: ", dest: &c.Bucket},
	}

	scanner := bufio.NewScanner(in)
	for _, q := range questions {
		fmt.Fprint(out, q.label)
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return Config{}, fmt.Errorf("read %s: %w", q.name, err)
		}
		answer := strings.TrimRight(scanner.Text(), " \t\r")
		if q.upper {
			answer = strings.ToUpper(answer)
		}
		*q.dest = answer
	}

	if err := Save(path, c); err != nil {
		return Config{}, err
	}
	logrus.WithField("path", path).Info("configuration saved")
	return c, nil
}
