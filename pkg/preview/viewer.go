package preview

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/figment3d/figment/pkg/math3d"
	"github.com/figment3d/figment/pkg/model"
)

// rotationAxis tracks position and velocity for one rotation axis,
// with a critically damped spring decaying velocity toward zero.
type rotationAxis struct {
	position  float64
	velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func newRotationAxis(fps int) rotationAxis {
	return rotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *rotationAxis) update() {
	a.position += a.velocity
	a.velocity, a.velAccel = a.velSpring.Update(a.velocity, a.velAccel, 0)
}

// rotationState is the drag/impulse rotation of the model.
type rotationState struct {
	pitch, yaw rotationAxis
	fps        int
}

func newRotationState(fps int) *rotationState {
	return &rotationState{
		pitch: newRotationAxis(fps),
		yaw:   newRotationAxis(fps),
		fps:   fps,
	}
}

func (r *rotationState) update() {
	r.pitch.update()
	r.yaw.update()
}

func (r *rotationState) applyImpulse(pitch, yaw float64) {
	r.pitch.velocity += pitch
	r.yaw.velocity += yaw
}

func (r *rotationState) reset() {
	r.pitch = newRotationAxis(r.fps)
	r.yaw = newRotationAxis(r.fps)
}

// Viewer plays a character's clips as a spinning terminal wireframe.
//
// Keys: space impulse, b skeleton overlay, a next clip (wrapping
// through rest pose), r reset view, esc quit. Mouse drag rotates,
// wheel zooms.
type Viewer struct {
	char  *model.Character
	edges [][2]int

	// normalize recenters the rest mesh and scales it to ~2 units.
	normalize math3d.Mat4

	rotation  *rotationState
	clipIdx   int // -1 = rest pose
	clipTime  float64
	showBones bool
	fps       int
	cameraZ   float64
}

// NewViewer prepares a viewer for a character.
func NewViewer(c *model.Character, fps int) *Viewer {
	if fps <= 0 {
		fps = 30
	}

	c.Mesh.CalculateBounds()
	center := c.Mesh.Center()
	size := c.Mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if maxDim > 0 {
		scale = 2.0 / maxDim
	}
	normalize := math3d.Scale(math3d.V3(scale, scale, scale)).
		Mul(math3d.Translate(center.Negate()))

	clipIdx := -1
	if len(c.Clips) > 0 {
		clipIdx = 0
	}

	return &Viewer{
		char:      c,
		edges:     MeshEdges(c.Mesh),
		normalize: normalize,
		rotation:  newRotationState(fps),
		clipIdx:   clipIdx,
		showBones: true,
		fps:       fps,
		cameraZ:   5,
	}
}

// ClipName returns the active clip's name, or "rest".
func (v *Viewer) ClipName() string {
	if v.clipIdx < 0 {
		return "rest"
	}
	return v.char.Clips[v.clipIdx].Name
}

// CycleClip advances to the next clip, wrapping through the rest pose.
func (v *Viewer) CycleClip() {
	v.clipIdx++
	if v.clipIdx >= len(v.char.Clips) {
		v.clipIdx = -1
	}
	v.clipTime = 0
}

// pose returns the current animation pose.
func (v *Viewer) pose() model.Pose {
	if v.clipIdx < 0 {
		return v.char.Skeleton.RestPose()
	}
	return v.char.Clips[v.clipIdx].Pose(v.char.Skeleton, v.clipTime)
}

// Advance steps the clip clock, looping at the clip's duration.
func (v *Viewer) Advance(dt float64) {
	v.rotation.update()
	if v.clipIdx < 0 {
		return
	}
	d := v.char.Clips[v.clipIdx].Duration()
	if d <= 0 {
		return
	}
	v.clipTime += dt
	for v.clipTime > d {
		v.clipTime -= d
	}
}

// DrawFrame renders the current pose into a framebuffer.
func (v *Viewer) DrawFrame(fb *Framebuffer, cam *Camera) {
	transform := math3d.RotateX(v.rotation.pitch.position).
		Mul(math3d.RotateY(v.rotation.yaw.position)).
		Mul(v.normalize)

	pose := v.pose()
	positions := SkinnedPositions(v.char.Mesh, v.char.Skeleton, pose)
	for i, p := range positions {
		positions[i] = transform.MulVec3(p)
	}

	project := func(p math3d.Vec3) (int, int, bool) {
		x, y, ok := cam.WorldToScreen(p, fb.Width, fb.Height)
		return int(x), int(y), ok
	}

	// Dashed ground hint just below the normalized model.
	const groundY = -1.1
	for gx := -1.5; gx < 1.5; gx += 0.25 {
		a := math3d.V3(gx, groundY, 0)
		b := math3d.V3(gx+0.12, groundY, 0)
		if x0, y0, ok0 := project(a); ok0 {
			if x1, y1, ok1 := project(b); ok1 {
				fb.DrawLine(x0, y0, x1, y1, colorGrid)
			}
		}
	}

	for _, e := range v.edges {
		x0, y0, ok0 := project(positions[e[0]])
		x1, y1, ok1 := project(positions[e[1]])
		if !ok0 && !ok1 {
			continue
		}
		fb.DrawLine(x0, y0, x1, y1, colorMesh)
	}

	if v.showBones {
		bones := BonePositions(v.char.Skeleton, pose)
		for i := range bones {
			bones[i] = transform.MulVec3(bones[i])
		}
		for i, b := range v.char.Skeleton.Bones {
			if b.Parent < 0 {
				continue
			}
			x0, y0, ok0 := project(bones[b.Parent])
			x1, y1, ok1 := project(bones[i])
			if !ok0 && !ok1 {
				continue
			}
			fb.DrawLine(x0, y0, x1, y1, colorBone)
		}
	}
}

// Run starts the interactive terminal loop and blocks until the user
// quits or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Mouse tracking (any-event + SGR extended).
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")

	fb := NewFramebuffer(width, height*2)
	cam := NewCamera()
	cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	cam.SetPosition(math3d.V3(0, 0, v.cameraZ))
	cam.LookAt(math3d.Zero3())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	var mouseDown bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = NewFramebuffer(width, height*2)
				cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"), ev.MatchString("q"):
					cancel()
					return
				case ev.MatchString("space"):
					v.rotation.applyImpulse(
						(rand.Float64()-0.5)*1.2,
						(rand.Float64()-0.5)*1.2,
					)
				case ev.MatchString("b"):
					v.showBones = !v.showBones
				case ev.MatchString("a"):
					v.CycleClip()
				case ev.MatchString("r"):
					v.rotation.reset()
					v.clipTime = 0
					v.cameraZ = 5
					cam.SetPosition(math3d.V3(0, 0, v.cameraZ))
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					v.rotation.applyImpulse(float64(dy)*0.03, float64(dx)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					v.cameraZ = math.Max(1, v.cameraZ-0.5)
				case uv.MouseWheelDown:
					v.cameraZ = math.Min(20, v.cameraZ+0.5)
				}
				cam.SetPosition(math3d.V3(0, 0, v.cameraZ))
			}
		}
	}()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	targetDuration := time.Second / time.Duration(v.fps)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		v.Advance(dt)

		fb.Clear(RGB(18, 18, 26))
		v.DrawFrame(fb, cam)

		fb.Blit(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
