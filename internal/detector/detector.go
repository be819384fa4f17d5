package detector

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"deepfake-detector/internal/core"
)

// deviceCPU is the only execution provider configured for the session.
const deviceCPU = "cpu"

// Detector runs deepfake inference with an ONNX model. The session reuses
// preallocated input/output tensors, so Predict serializes inference with
// a mutex; the detector itself is safe to share across requests.
type Detector struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	meta         Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	threshold    float64
	fakeIndex    int
	logger       *zap.Logger
}

// New loads the ONNX model at modelPath with its metadata sidecar and
// returns a ready detector deciding at the given threshold.
func New(modelPath, metadataPath string, threshold float64, logger *zap.Logger) (*Detector, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	meta, err := loadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	fakeIndex, err := fakeClassIndex(meta.Classes)
	if err != nil {
		return nil, err
	}

	inputShape := ort.NewShape(meta.InputShape...)
	outputShape := ort.NewShape(meta.OutputShape...)

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Detector{
		session:      session,
		meta:         meta,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		threshold:    threshold,
		fakeIndex:    fakeIndex,
		logger:       logger,
	}, nil
}

// Predict analyzes the image file at path and returns the verdict.
func (d *Detector) Predict(ctx context.Context, path string) (*core.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewError(core.KindDetectionFailure, "Failed to read uploaded image", err)
	}
	defer f.Close()

	inputData, err := preprocess(f, d.meta.ImageSize)
	if err != nil {
		return nil, core.NewError(core.KindDetectionFailure, "Unsupported or corrupt image", err)
	}

	fakeLogit, realLogit, err := d.run(inputData)
	if err != nil {
		return nil, core.NewError(core.KindDetectionFailure, "Inference failed", err)
	}

	fakeProb, realProb := softmax2(fakeLogit, realLogit)
	label, confidence := verdict(fakeProb, d.threshold)

	d.logger.Debug("Prediction complete",
		zap.String("prediction", label),
		zap.Float64("fake_probability", fakeProb))

	return &core.DetectionResult{
		Status:          core.StatusSuccess,
		Prediction:      label,
		Confidence:      confidence,
		FakeProbability: fakeProb,
		RealProbability: realProb,
	}, nil
}

func (d *Detector) run(inputData []float32) (fakeLogit, realLogit float32, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	in := d.inputTensor.GetData()
	if len(inputData) != len(in) {
		return 0, 0, fmt.Errorf("expected %d input values, got %d", len(in), len(inputData))
	}
	copy(in, inputData)

	if err := d.session.Run(); err != nil {
		return 0, 0, fmt.Errorf("inference failed: %w", err)
	}

	out := d.outputTensor.GetData()
	if len(out) < 2 {
		return 0, 0, fmt.Errorf("expected 2 output values, got %d", len(out))
	}

	return out[d.fakeIndex], out[1-d.fakeIndex], nil
}

// Threshold returns the fake-probability cutoff.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Device returns the compute device inference runs on.
func (d *Detector) Device() string {
	return deviceCPU
}

// Close releases the ONNX session and tensors.
func (d *Detector) Close() {
	if d.inputTensor != nil {
		d.inputTensor.Destroy()
	}
	if d.outputTensor != nil {
		d.outputTensor.Destroy()
	}
	if d.session != nil {
		d.session.Destroy()
	}
	ort.DestroyEnvironment()
}
