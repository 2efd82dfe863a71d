package paddleocr

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	envOnce  sync.Once
	envErr   error
	sharedLibraryPath string
)

// SetSharedLibraryPath configures the onnxruntime shared library location
// before the environment is first initialized. A no-op once the environment
// is live.
func SetSharedLibraryPath(path string) {
	sharedLibraryPath = path
}

func ensureEnvironment() error {
	envOnce.Do(func() {
		if sharedLibraryPath != "" {
			ort.SetSharedLibraryPath(sharedLibraryPath)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// session wraps a single ONNX Runtime graph with a fixed input/output name
// contract, feeding it one float32 NCHW tensor and reading back one
// float32 output tensor at a time.
type session struct {
	mu      sync.Mutex
	handle  *ort.DynamicAdvancedSession
	inputs  []string
	outputs []string
}

func newSession(modelPath string, inputNames, outputNames []string) (*session, error) {
	if err := ensureEnvironment(); err != nil {
		return nil, fmt.Errorf("onnxruntime environment init failed: %w", err)
	}
	handle, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, outputNames, nil)
	if err != nil {
		return nil, fmt.Errorf("loading onnx model %s: %w", modelPath, err)
	}
	return &session{handle: handle, inputs: inputNames, outputs: outputNames}, nil
}

// run feeds a single NCHW float32 tensor through the graph and returns the
// first output tensor's data and shape. Calls are serialized per session
// since a DynamicAdvancedSession is not safe for concurrent Run calls.
func (s *session) run(data []float32, shape []int64) ([]float32, []int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inputTensor, err := ort.NewTensor(ort.NewShape(shape...), data)
	if err != nil {
		return nil, nil, fmt.Errorf("building input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputs := make([]ort.Value, len(s.outputs))
	if err := s.handle.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, nil, fmt.Errorf("running inference: %w", err)
	}

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, fmt.Errorf("unexpected output tensor type from %v", s.outputs)
	}
	defer out.Destroy()

	result := make([]float32, len(out.GetData()))
	copy(result, out.GetData())

	shapeOut := make([]int64, len(out.GetShape()))
	copy(shapeOut, out.GetShape())

	return result, shapeOut, nil
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle.Destroy()
}
