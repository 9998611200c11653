package live

import (
	"fmt"

	"github.com/ausocean/booth/config"
	"github.com/ausocean/booth/device"
	"github.com/ausocean/booth/device/dslr"
	"github.com/ausocean/booth/device/file"
	"github.com/ausocean/booth/device/webcam"
)

// newCamera returns an unopened camera of the given type. It is a variable
// so tests can substitute fakes.
var newCamera = func(typ uint8, c config.Config) device.Camera {
	switch typ {
	case config.CameraDSLR:
		return dslr.New(c.Logger)
	case config.CameraFile:
		return file.New(c.Logger)
	default:
		return webcam.New(c.Logger)
	}
}

// OpenCamera creates and opens the camera selected by c.CameraType. If a
// DSLR cannot be opened and c.CameraFallback is set, the webcam is used
// instead.
func OpenCamera(c config.Config) (device.Camera, device.Resolution, error) {
	cam, res, err := openCamera(c.CameraType, c)
	if err == nil {
		return cam, res, nil
	}
	if c.CameraType != config.CameraDSLR || !c.CameraFallback {
		return nil, device.Resolution{}, err
	}

	c.Logger.Warning(pkg+"could not open DSLR, falling back to webcam", "error", err)
	cam, res, err = openCamera(config.CameraWebcam, c)
	if err != nil {
		return nil, device.Resolution{}, fmt.Errorf("fallback webcam failed: %w", err)
	}
	return cam, res, nil
}

func openCamera(typ uint8, c config.Config) (device.Camera, device.Resolution, error) {
	cam := newCamera(typ, c)

	c.Logger.Debug(pkg+"configuring camera", "camera", cam.Name())
	err := cam.Set(c)
	switch err := err.(type) {
	case nil:
		// Do nothing.
	case device.MultiError:
		c.Logger.Warning(pkg+"errors from configuring camera", "camera", cam.Name(), "errors", err)
	default:
		return nil, device.Resolution{}, err
	}

	res, err := cam.Open(int(c.Width), int(c.Height))
	if err != nil {
		cam.Close()
		return nil, device.Resolution{}, fmt.Errorf("could not open %s: %w", cam.Name(), err)
	}
	c.Logger.Info(pkg+"camera opened", "camera", cam.Name(), "resolution", res)
	return cam, res, nil
}
